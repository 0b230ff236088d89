package service

import (
	"fmt"
	"strings"

	"autoadvisor/internal/model"
	"autoadvisor/internal/utils"
)

// maxKBChunks bounds the knowledge context handed to the advisory prompt.
const maxKBChunks = 8

// KnowledgeSource loads the full knowledge base table. The table is re-read
// on every retrieval call; there is no caching layer.
type KnowledgeSource interface {
	Load() ([]model.KnowledgeBaseRow, error)
}

// Retriever resolves a listing to relevant knowledge base entries by
// brand/model/year matching, degrading to an unfiltered sample when nothing
// matches so the advisory prompt never runs on an empty context.
type Retriever struct {
	kb KnowledgeSource
}

// NewRetriever creates a new retriever
func NewRetriever(kb KnowledgeSource) *Retriever {
	return &Retriever{kb: kb}
}

// Retrieve returns up to maxKBChunks formatted knowledge chunks for the
// listing. Matching never fails: an empty filter result falls back to an
// unfiltered sample of the table.
func (r *Retriever) Retrieve(listing *model.ListingRecord) ([]string, error) {
	rows, err := r.kb.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	chunks := FilteredMatch(listing, rows)
	if len(chunks) == 0 {
		chunks = UnfilteredSample(rows)
	}

	if len(chunks) > maxKBChunks {
		chunks = chunks[:maxKBChunks]
	}
	return chunks, nil
}

// FilteredMatch returns the formatted rows whose brand, model and year range
// are compatible with the listing, in table order. Matching is fail-open: a
// row is excluded on a dimension only when both sides carry a usable value
// and they disagree.
func FilteredMatch(listing *model.ListingRecord, rows []model.KnowledgeBaseRow) []string {
	brand := normalizeField(listing.Brand)
	modelName := normalizeField(listing.Model)

	var chunks []string
	for _, row := range rows {
		rowBrand := strings.ToLower(strings.TrimSpace(row.Brand))
		rowModel := strings.ToLower(strings.TrimSpace(row.Model))

		if brand != "" && rowBrand != "" && brand != rowBrand {
			continue
		}
		// Substring direction matters: the listing's model must appear in
		// the row's, so "golf" matches a "golf 7" row but not vice versa.
		if modelName != "" && rowModel != "" && !strings.Contains(rowModel, modelName) {
			continue
		}
		if listing.Year != nil {
			if low, high, ok := utils.ParseYearRange(row.YearRange); ok {
				if *listing.Year < low || *listing.Year > high {
					continue
				}
			}
		}
		if chunk := formatKBChunk(row); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// UnfilteredSample formats every row of the table in order, ignoring the
// listing entirely. Used when filtering leaves nothing: general guidance
// beats an empty context.
func UnfilteredSample(rows []model.KnowledgeBaseRow) []string {
	var chunks []string
	for _, row := range rows {
		if chunk := formatKBChunk(row); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// formatKBChunk renders a row into a single-line citation-style string, or
// "" when the row has no body text.
func formatKBChunk(row model.KnowledgeBaseRow) string {
	text := strings.TrimSpace(row.Text)
	if text == "" {
		return ""
	}
	topic := strings.TrimSpace(row.Topic)
	return fmt.Sprintf("[%s/%s/%s • %s] %s", row.Brand, row.Model, row.YearRange, topic, text)
}

func normalizeField(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*s))
}
