package model

// KnowledgeBaseRow is one reference fact from the static tabular knowledge
// base of brand/model/year-scoped reliability notes. Rows are read-only.
type KnowledgeBaseRow struct {
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	YearRange string `json:"year_range"`
	Topic     string `json:"topic"`
	Text      string `json:"text"`
}
