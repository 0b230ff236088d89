package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"autoadvisor/internal/config"
	"autoadvisor/internal/model"
	"autoadvisor/internal/utils"
)

const advisorSystemPrompt = `You are AutoAdvisor, a cautious, transparent used-car assistant.
You will produce a single JSON object with this schema:
{
  "pros": [], "cons": [],
  "price_assessment": "Under|At|Over|Unknown",
  "mechanical_risk": "Low|Medium|High",
  "info_completeness": "Low|Medium|High",
  "questions_to_ask": [],
  "summary": "",
  "citations": []
}
Rules:
- Output ONLY valid JSON (no extra text).
- Ground PROS/CONS in the ad text; include short direct quotes in "citations".
- Use the KB only for general typical issues and inspection tips (don't invent facts about this specific car).
- If you lack info for price, set price_assessment to "Unknown".
- Keep "summary" under 180 words, friendly and actionable, with clear caveats.`

// AdvisoryService produces a grounded, risk-aware assessment for an
// extracted listing by combining it with retrieved knowledge base chunks in
// a second completion call.
type AdvisoryService struct {
	ai        AIClient
	retriever *Retriever
	cfg       *config.LLMConfig
}

// NewAdvisoryService creates a new advisory service
func NewAdvisoryService(ai AIClient, retriever *Retriever, cfg *config.LLMConfig) *AdvisoryService {
	return &AdvisoryService{ai: ai, retriever: retriever, cfg: cfg}
}

// listingFacts fixes the selection and order of listing fields serialized
// into the advisory prompt. Absent values render as JSON null on purpose so
// the model sees what is missing.
type listingFacts struct {
	Brand          *string         `json:"brand"`
	Model          *string         `json:"model"`
	Year           *int            `json:"year"`
	MileageKM      *int            `json:"mileage_km"`
	PriceEUR       *int            `json:"price_eur"`
	Fuel           *string         `json:"fuel"`
	Transmission   *string         `json:"transmission"`
	Trim           *string         `json:"trim"`
	Options        model.JSONArray `json:"options"`
	ServiceHistory *string         `json:"service_history"`
	KnownIssues    model.JSONArray `json:"known_issues"`
	SellerNotes    *string         `json:"seller_notes"`
}

// Advise retrieves knowledge chunks for the listing, runs the advisory
// completion and returns a fully populated AdvisoryRecord. Fails with
// *UpstreamError on a non-success completion status and *utils.ParseError
// when no JSON object can be recovered; defaulting only runs on a
// successfully parsed response.
func (s *AdvisoryService) Advise(ctx context.Context, listing *model.ListingRecord) (*model.AdvisoryRecord, error) {
	chunks, err := s.retriever.Retrieve(listing)
	if err != nil {
		return nil, err
	}

	userMessage, err := buildAdvisorMessage(listing, chunks)
	if err != nil {
		return nil, err
	}

	content, err := s.ai.Complete(ctx, advisorSystemPrompt, userMessage, CompletionOptions{
		Model:       s.cfg.AdvisorModel,
		Temperature: s.cfg.AdvisorTemperature,
		MaxTokens:   s.cfg.AdvisorMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("advisory completion: %w", err)
	}

	var advisory model.AdvisoryRecord
	if err := utils.ParseAIJSON(content, &advisory); err != nil {
		return nil, err
	}

	advisory.ApplyDefaults()
	return &advisory, nil
}

// buildAdvisorMessage assembles the bounded prompt context: listing facts as
// data, the verbatim ad between sentinel markers, the retrieved chunks as a
// bulleted list, and the six fixed task instructions.
func buildAdvisorMessage(listing *model.ListingRecord, chunks []string) (string, error) {
	facts := listingFacts{
		Brand:          listing.Brand,
		Model:          listing.Model,
		Year:           listing.Year,
		MileageKM:      listing.MileageKM,
		PriceEUR:       listing.PriceEUR,
		Fuel:           listing.Fuel,
		Transmission:   listing.Transmission,
		Trim:           listing.Trim,
		Options:        listing.Options,
		ServiceHistory: listing.ServiceHistory,
		KnownIssues:    listing.KnownIssues,
		SellerNotes:    listing.SellerNotes,
	}
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("failed to marshal listing facts: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Listing facts (JSON):\n")
	sb.Write(factsJSON)
	sb.WriteString("\n\nAd text:\n<<<")
	sb.WriteString(strings.TrimSpace(listing.Text))
	sb.WriteString(">>>\n\n")
	sb.WriteString("Retrieved knowledge (general reliability & inspection notes):\n- ")
	sb.WriteString(strings.Join(chunks, "\n- "))
	sb.WriteString("\n\nTasks:\n")
	sb.WriteString("1) Extract PROS and CONS grounded in the ad text.\n")
	sb.WriteString("2) Price assessment (Under/At/Over/Unknown) + short rationale.\n")
	sb.WriteString("3) Mechanical risk (Low/Medium/High) based on model-year typical issues and ad evidence.\n")
	sb.WriteString("4) Info completeness (Low/Medium/High) considering missing key details.\n")
	sb.WriteString("5) Top 5 questions to ask the seller.\n")
	sb.WriteString("6) Provide concise `summary` (under 180 words).\n")

	return sb.String(), nil
}
