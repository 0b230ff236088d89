package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
)

// ListingRecord holds the canonical facts extracted from one vehicle ad.
// Numeric fields are either a valid non-negative integer or nil, never a
// string. Text always carries the verbatim source ad.
type ListingRecord struct {
	ID             int64           `json:"id,omitempty" db:"id"`
	Brand          *string         `json:"brand,omitempty" db:"brand"`
	Model          *string         `json:"model,omitempty" db:"model"`
	Year           *int            `json:"year,omitempty" db:"year"`
	MileageKM      *int            `json:"mileage_km,omitempty" db:"mileage_km"`
	PriceEUR       *int            `json:"price_eur,omitempty" db:"price_eur"`
	Fuel           *string         `json:"fuel,omitempty" db:"fuel"`
	Transmission   *string         `json:"transmission,omitempty" db:"transmission"`
	Trim           *string         `json:"trim,omitempty" db:"trim"`
	Options        JSONArray       `json:"options" db:"options"`
	ServiceHistory *string         `json:"service_history,omitempty" db:"service_history"`
	KnownIssues    JSONArray       `json:"known_issues" db:"known_issues"`
	SellerNotes    *string         `json:"seller_notes,omitempty" db:"seller_notes"`
	Text           string          `json:"text" db:"text"`
	SourceURL      *string         `json:"source_url,omitempty" db:"source_url"`
	Embedding      pgvector.Vector `json:"-" db:"embedding"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
