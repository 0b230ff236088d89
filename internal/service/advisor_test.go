package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"autoadvisor/internal/model"
	"autoadvisor/internal/utils"
)

func advisorUnderTest(ai *fakeAIClient, rows []model.KnowledgeBaseRow) *AdvisoryService {
	retriever := NewRetriever(&fakeKnowledgeSource{rows: rows})
	return NewAdvisoryService(ai, retriever, extractorConfig())
}

func kbRows() []model.KnowledgeBaseRow {
	return []model.KnowledgeBaseRow{
		{Brand: "vw", Model: "golf 7", YearRange: "2013-2019", Topic: "dsg", Text: "DSG mechatronics can fail around 120k km."},
	}
}

func TestAdviseDefaultsMissingFields(t *testing.T) {
	ai := &fakeAIClient{response: `{"cons": ["high mileage"], "summary": "Looks fair."}`}
	svc := advisorUnderTest(ai, kbRows())

	advisory, err := svc.Advise(context.Background(), golfListing())
	if err != nil {
		t.Fatalf("Advise() error = %v", err)
	}

	if advisory.PriceAssessment != model.PriceUnknown {
		t.Errorf("price_assessment = %q, want %q", advisory.PriceAssessment, model.PriceUnknown)
	}
	if advisory.MechanicalRisk != model.LevelMedium {
		t.Errorf("mechanical_risk = %q, want %q", advisory.MechanicalRisk, model.LevelMedium)
	}
	if advisory.InfoCompleteness != model.LevelMedium {
		t.Errorf("info_completeness = %q, want %q", advisory.InfoCompleteness, model.LevelMedium)
	}
	if advisory.Pros == nil || len(advisory.Pros) != 0 {
		t.Errorf("pros = %v, want empty list", advisory.Pros)
	}
	if advisory.QuestionsToAsk == nil || advisory.Citations == nil {
		t.Error("questions_to_ask and citations must default to empty lists")
	}
	if len(advisory.Cons) != 1 || advisory.Cons[0] != "high mileage" {
		t.Errorf("cons = %v, want the parsed value preserved", advisory.Cons)
	}
}

func TestAdviseCanonicalizesEnums(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantRisk string
	}{
		{name: "Lowercase value canonicalized", response: `{"mechanical_risk": "high"}`, wantRisk: model.LevelHigh},
		{name: "Out-of-vocabulary falls back to default", response: `{"mechanical_risk": "Extreme"}`, wantRisk: model.LevelMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := advisorUnderTest(&fakeAIClient{response: tt.response}, kbRows())
			advisory, err := svc.Advise(context.Background(), golfListing())
			if err != nil {
				t.Fatalf("Advise() error = %v", err)
			}
			if advisory.MechanicalRisk != tt.wantRisk {
				t.Errorf("mechanical_risk = %q, want %q", advisory.MechanicalRisk, tt.wantRisk)
			}
		})
	}
}

func TestAdvisePromptAssembly(t *testing.T) {
	ai := &fakeAIClient{response: `{}`}
	svc := advisorUnderTest(ai, kbRows())
	listing := golfListing()
	listing.Text = "  VW Golf 7 2016, 98 000 km  "

	if _, err := svc.Advise(context.Background(), listing); err != nil {
		t.Fatalf("Advise() error = %v", err)
	}

	if !strings.Contains(ai.lastUser, "<<<VW Golf 7 2016, 98 000 km>>>") {
		t.Errorf("prompt must wrap the trimmed ad text in sentinel markers:\n%s", ai.lastUser)
	}
	if !strings.Contains(ai.lastUser, "- [vw/golf 7/2013-2019 • dsg] DSG mechatronics can fail around 120k km.") {
		t.Errorf("prompt must include the retrieved chunks as a bulleted list:\n%s", ai.lastUser)
	}
	if !strings.Contains(ai.lastUser, `"mileage_km":null`) {
		t.Errorf("absent listing facts must serialize as null:\n%s", ai.lastUser)
	}
	if !strings.Contains(ai.lastUser, "6) Provide concise `summary`") {
		t.Errorf("prompt must carry all six task instructions:\n%s", ai.lastUser)
	}
	if ai.lastOpts.Model != "test-advisor" || ai.lastOpts.Temperature != 0.2 || ai.lastOpts.MaxTokens != 700 {
		t.Errorf("opts = %+v, want low-but-nonzero randomness with a bounded ceiling", ai.lastOpts)
	}
}

func TestAdviseParseError(t *testing.T) {
	ai := &fakeAIClient{response: "no structured output here"}
	svc := advisorUnderTest(ai, kbRows())

	_, err := svc.Advise(context.Background(), golfListing())
	var perr *utils.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *utils.ParseError, got %v", err)
	}
}

func TestAdviseUpstreamError(t *testing.T) {
	ai := &fakeAIClient{err: &UpstreamError{Status: 429, Body: "rate limited"}}
	svc := advisorUnderTest(ai, kbRows())

	_, err := svc.Advise(context.Background(), golfListing())
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
}

func TestAdviseUsesFallbackChunksWhenNothingMatches(t *testing.T) {
	ai := &fakeAIClient{response: `{}`}
	rows := []model.KnowledgeBaseRow{
		{Brand: "bmw", Model: "320d", YearRange: "2010-2015", Topic: "engine", Text: "Timing chain wear is common."},
	}
	svc := advisorUnderTest(ai, rows)

	if _, err := svc.Advise(context.Background(), golfListing()); err != nil {
		t.Fatalf("Advise() error = %v", err)
	}
	if !strings.Contains(ai.lastUser, "Timing chain wear is common.") {
		t.Errorf("prompt should fall back to unfiltered chunks instead of an empty context:\n%s", ai.lastUser)
	}
}
