package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"autoadvisor/internal/model"
	"autoadvisor/internal/repository"
	"autoadvisor/internal/service"
	"autoadvisor/internal/utils"

	"github.com/gin-gonic/gin"
)

// AnalyzeHandler handles listing analysis HTTP requests
type AnalyzeHandler struct {
	extractor *service.ListingExtractionService
	advisor   *service.AdvisoryService
	store     *repository.PostgresRepository
	ai        service.AIClient
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(
	extractor *service.ListingExtractionService,
	advisor *service.AdvisoryService,
	store *repository.PostgresRepository,
	ai service.AIClient,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		extractor: extractor,
		advisor:   advisor,
		store:     store,
		ai:        ai,
	}
}

// Analyze handles POST /api/v1/analyze: extract, store, advise.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	startTime := time.Now()
	ctx := c.Request.Context()

	listing, err := h.extractor.Extract(ctx, req.AdText)
	if err != nil {
		respondError(c, err)
		return
	}
	listing.SourceURL = req.SourceURL

	id, err := h.store.InsertListing(ctx, listing)
	if err != nil {
		respondError(c, err)
		return
	}
	listing.ID = id

	// The stored vector is an enrichment; a failed embedding must not sink
	// the whole analysis.
	if err := h.embedListing(c, listing); err != nil {
		log.Printf("Warning: failed to embed listing %d: %v", id, err)
	}

	advisory, err := h.advisor.Advise(ctx, listing)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.AnalyzeResponse{
		Listing:   listing,
		Advisor:   advisory,
		ListingID: id,
		TookMS:    time.Since(startTime).Milliseconds(),
	})
}

// Extract handles POST /api/v1/extract - extraction without advisory
func (h *AnalyzeHandler) Extract(c *gin.Context) {
	var req model.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	listing, err := h.extractor.Extract(c.Request.Context(), req.AdText)
	if err != nil {
		respondError(c, err)
		return
	}
	listing.SourceURL = req.SourceURL

	c.JSON(http.StatusOK, listing)
}

// Advise handles POST /api/v1/advise - advisory for an extracted listing
func (h *AnalyzeHandler) Advise(c *gin.Context) {
	var listing model.ListingRecord
	if err := c.ShouldBindJSON(&listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if listing.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Listing text must not be empty"})
		return
	}

	advisory, err := h.advisor.Advise(c.Request.Context(), &listing)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, advisory)
}

// GetListing handles GET /api/v1/listings/:id
func (h *AnalyzeHandler) GetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.store.GetListingByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *AnalyzeHandler) embedListing(c *gin.Context, listing *model.ListingRecord) error {
	embeddings, err := h.ai.CreateEmbeddings(c.Request.Context(), []string{listing.Text})
	if err != nil {
		return err
	}
	if len(embeddings) == 0 {
		return nil
	}
	return h.store.UpdateEmbedding(c.Request.Context(), listing.ID, embeddings[0])
}

// respondError maps pipeline failures onto HTTP statuses: the completion
// service failing is a bad gateway, an unparseable completion is an
// unprocessable response, anything else is internal.
func respondError(c *gin.Context, err error) {
	var uerr *service.UpstreamError
	if errors.As(err, &uerr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	var perr *utils.ParseError
	if errors.As(err, &perr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
