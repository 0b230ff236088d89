package service

import (
	"fmt"
	"strings"
	"testing"

	"autoadvisor/internal/model"
)

func strPtr(s string) *string { return &s }
func intVal(n int) *int       { return &n }

func golfListing() *model.ListingRecord {
	return &model.ListingRecord{
		Brand: strPtr("VW"),
		Model: strPtr("golf"),
		Year:  intVal(2016),
		Text:  "VW Golf 7 2016",
	}
}

func TestFilteredMatch(t *testing.T) {
	tests := []struct {
		name    string
		listing *model.ListingRecord
		row     model.KnowledgeBaseRow
		matches bool
	}{
		{
			name:    "Brand, substring model and year range match",
			listing: golfListing(),
			row:     model.KnowledgeBaseRow{Brand: "vw", Model: "golf 7", YearRange: "2013-2019", Topic: "dsg", Text: "DSG service intervals matter."},
			matches: true,
		},
		{
			name:    "Different brand excluded",
			listing: golfListing(),
			row:     model.KnowledgeBaseRow{Brand: "bmw", Model: "320d", YearRange: "2013-2019", Text: "Timing chain."},
			matches: false,
		},
		{
			name:    "Substring direction is listing-in-row only",
			listing: &model.ListingRecord{Brand: strPtr("VW"), Model: strPtr("golf 7"), Text: "x"},
			row:     model.KnowledgeBaseRow{Brand: "vw", Model: "golf", Text: "Generic Golf note."},
			matches: false,
		},
		{
			name:    "Year outside range excluded",
			listing: golfListing(),
			row:     model.KnowledgeBaseRow{Brand: "vw", Model: "golf 7", YearRange: "2008-2012", Text: "Mk6 issues."},
			matches: false,
		},
		{
			name:    "Malformed year range fails open",
			listing: golfListing(),
			row:     model.KnowledgeBaseRow{Brand: "vw", Model: "golf 7", YearRange: "facelift only", Text: "Applies broadly."},
			matches: true,
		},
		{
			name:    "Empty row fields match anything",
			listing: golfListing(),
			row:     model.KnowledgeBaseRow{Brand: "", Model: "", YearRange: "", Topic: "inspection", Text: "Always check the service book."},
			matches: true,
		},
		{
			name:    "Listing without brand or model matches any row",
			listing: &model.ListingRecord{Text: "some ad"},
			row:     model.KnowledgeBaseRow{Brand: "vw", Model: "golf 7", YearRange: "2013-2019", Text: "Note."},
			matches: true,
		},
		{
			name:    "Row without body text dropped",
			listing: golfListing(),
			row:     model.KnowledgeBaseRow{Brand: "vw", Model: "golf 7", YearRange: "2013-2019", Text: "   "},
			matches: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := FilteredMatch(tt.listing, []model.KnowledgeBaseRow{tt.row})
			if (len(chunks) == 1) != tt.matches {
				t.Errorf("FilteredMatch() returned %d chunks, want match=%v", len(chunks), tt.matches)
			}
		})
	}
}

func TestFilteredMatchChunkFormat(t *testing.T) {
	row := model.KnowledgeBaseRow{Brand: "VW", Model: "Golf 7", YearRange: "2013-2019", Topic: "DSG", Text: "Check gearbox service history."}
	chunks := FilteredMatch(golfListing(), []model.KnowledgeBaseRow{row})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := "[VW/Golf 7/2013-2019 • DSG] Check gearbox service history."
	if chunks[0] != want {
		t.Errorf("chunk = %q, want %q", chunks[0], want)
	}
}

type fakeKnowledgeSource struct {
	rows []model.KnowledgeBaseRow
	err  error
}

func (f *fakeKnowledgeSource) Load() ([]model.KnowledgeBaseRow, error) {
	return f.rows, f.err
}

func TestRetrieveFallbackToUnfilteredSample(t *testing.T) {
	rows := []model.KnowledgeBaseRow{
		{Brand: "bmw", Model: "320d", YearRange: "2010-2015", Text: "Timing chain wear."},
		{Brand: "audi", Model: "a4", YearRange: "2008-2015", Text: "Oil consumption."},
	}
	retriever := NewRetriever(&fakeKnowledgeSource{rows: rows})

	chunks, err := retriever.Retrieve(golfListing())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected unfiltered fallback of 2 chunks, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0], "Timing chain wear.") {
		t.Errorf("fallback chunks should preserve table order, got %q", chunks[0])
	}
}

func TestRetrieveCapsAtEight(t *testing.T) {
	var rows []model.KnowledgeBaseRow
	for i := 0; i < 12; i++ {
		rows = append(rows, model.KnowledgeBaseRow{
			Brand: "vw", Model: "golf 7", YearRange: "2013-2019",
			Topic: "t", Text: fmt.Sprintf("note %d", i),
		})
	}
	retriever := NewRetriever(&fakeKnowledgeSource{rows: rows})

	chunks, err := retriever.Retrieve(golfListing())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != maxKBChunks {
		t.Fatalf("expected exactly %d chunks, got %d", maxKBChunks, len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.Contains(chunk, fmt.Sprintf("note %d", i)) {
			t.Errorf("chunk %d out of table order: %q", i, chunk)
		}
	}
}
