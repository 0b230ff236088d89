package model

// AnalyzeRequest represents a full analyze request: extract, store, advise.
type AnalyzeRequest struct {
	AdText    string  `json:"ad_text" binding:"required"`
	SourceURL *string `json:"source_url,omitempty"`
}

// AnalyzeResponse bundles the extracted listing, its advisory and the
// identifier assigned by the persistence sink.
type AnalyzeResponse struct {
	Listing   *ListingRecord  `json:"listing"`
	Advisor   *AdvisoryRecord `json:"advisor"`
	ListingID int64           `json:"listing_id"`
	TookMS    int64           `json:"took_ms"`
}

// ExtractRequest represents an extraction-only request
type ExtractRequest struct {
	AdText    string  `json:"ad_text" binding:"required"`
	SourceURL *string `json:"source_url,omitempty"`
}
