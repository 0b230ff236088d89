package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"autoadvisor/internal/model"
)

// CSVKnowledgeBase reads the static knowledge base table from a CSV file
// with columns {brand, model, year_range, topic, text}. The file is re-read
// in full on every Load call so edits show up without a restart; there is no
// caching layer.
type CSVKnowledgeBase struct {
	path string
}

// NewCSVKnowledgeBase creates a knowledge base backed by the given CSV file
func NewCSVKnowledgeBase(path string) *CSVKnowledgeBase {
	return &CSVKnowledgeBase{path: path}
}

// Load reads and parses the whole table
func (kb *CSVKnowledgeBase) Load() ([]model.KnowledgeBaseRow, error) {
	f, err := os.Open(kb.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Header row maps column names to positions, so column order in the
	// file does not matter.
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	rows := make([]model.KnowledgeBaseRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, model.KnowledgeBaseRow{
			Brand:     field(record, "brand"),
			Model:     field(record, "model"),
			YearRange: field(record, "year_range"),
			Topic:     field(record, "topic"),
			Text:      field(record, "text"),
		})
	}
	return rows, nil
}
