package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autoadvisor/internal/config"
	"autoadvisor/internal/model"
	"autoadvisor/internal/utils"
)

const extractionSystemPrompt = `You are an automotive data extractor.
Return ONLY a SINGLE JSON object with this schema:
{
  "brand": "", "model": "", "year": 0, "mileage_km": 0, "price_eur": 0,
  "fuel": "", "transmission": "", "trim": "", "options": [],
  "service_history": "", "known_issues": [], "seller_notes": "", "text": ""
}
Rules:
- Output ONLY valid JSON (no prose, no markdown fences).
- If unknown, use null (not empty strings).
- mileage_km and price_eur must be integers (e.g., 98000, 11500).
- Normalize EU formats: "98 000 km" -> 98000, "11 500€" -> 11500.
- Preserve the exact ad text in the field "text".
- Do not invent facts that aren't in the ad.`

// ListingExtractionService turns a free-text vehicle ad into a validated
// ListingRecord via a single near-deterministic completion call.
type ListingExtractionService struct {
	ai  AIClient
	cfg *config.LLMConfig
}

// NewListingExtractionService creates a new extraction service
func NewListingExtractionService(ai AIClient, cfg *config.LLMConfig) *ListingExtractionService {
	return &ListingExtractionService{ai: ai, cfg: cfg}
}

// extractionPayload is the loose shape the model returns before coercion.
// Numeric fields stay untyped because the model sometimes emits them as
// locale-formatted strings.
type extractionPayload struct {
	Brand          *string     `json:"brand"`
	Model          *string     `json:"model"`
	Year           interface{} `json:"year"`
	MileageKM      interface{} `json:"mileage_km"`
	PriceEUR       interface{} `json:"price_eur"`
	Fuel           *string     `json:"fuel"`
	Transmission   *string     `json:"transmission"`
	Trim           *string     `json:"trim"`
	Options        []string    `json:"options"`
	ServiceHistory *string     `json:"service_history"`
	KnownIssues    []string    `json:"known_issues"`
	SellerNotes    *string     `json:"seller_notes"`
	Text           *string     `json:"text"`
}

// Extract sends the ad text through the completion service and coerces the
// response into a canonical ListingRecord. Fails with *UpstreamError on a
// non-success completion status and *utils.ParseError when no JSON object
// can be recovered from the response.
func (s *ListingExtractionService) Extract(ctx context.Context, adText string) (*model.ListingRecord, error) {
	content, err := s.ai.Complete(ctx, extractionSystemPrompt, adText, CompletionOptions{
		Model:       s.cfg.ExtractModel,
		Temperature: s.cfg.ExtractTemperature,
		MaxTokens:   s.cfg.ExtractMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction completion: %w", err)
	}

	var payload extractionPayload
	if err := utils.ParseAIJSON(content, &payload); err != nil {
		return nil, err
	}

	listing := &model.ListingRecord{
		Brand:          titleCased(cleanString(payload.Brand)),
		Model:          cleanString(payload.Model),
		Year:           utils.NormalizeNumeric(payload.Year),
		MileageKM:      utils.NormalizeNumeric(payload.MileageKM),
		PriceEUR:       utils.NormalizeNumeric(payload.PriceEUR),
		Fuel:           cleanString(payload.Fuel),
		Transmission:   cleanString(payload.Transmission),
		Trim:           cleanString(payload.Trim),
		Options:        emptyIfNil(payload.Options),
		ServiceHistory: cleanString(payload.ServiceHistory),
		KnownIssues:    emptyIfNil(payload.KnownIssues),
		SellerNotes:    cleanString(payload.SellerNotes),
		Text:           adText,
		CreatedAt:      time.Now().UTC(),
	}

	// Keep the model's copy of the ad only when present; the verbatim input
	// always wins over an omitted or emptied field.
	if payload.Text != nil && strings.TrimSpace(*payload.Text) != "" {
		listing.Text = *payload.Text
	}

	return listing, nil
}

// cleanString trims a string field and treats the empty result as absent.
func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// titleCased upper-cases the first letter of each word and lower-cases the
// rest ("VW" -> "Vw"), matching how brands are stored in the listing table.
func titleCased(s *string) *string {
	if s == nil {
		return nil
	}
	words := strings.Fields(*s)
	for i, w := range words {
		runes := []rune(w)
		words[i] = strings.ToUpper(string(runes[:1])) + strings.ToLower(string(runes[1:]))
	}
	out := strings.Join(words, " ")
	return &out
}

func emptyIfNil(items []string) model.JSONArray {
	if items == nil {
		return model.JSONArray{}
	}
	return model.JSONArray(items)
}
