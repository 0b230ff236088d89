package model

import "strings"

// Allowed values for the advisory's enumerated fields.
const (
	PriceUnder   = "Under"
	PriceAt      = "At"
	PriceOver    = "Over"
	PriceUnknown = "Unknown"

	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// AdvisoryRecord is the generated assessment for one listing. After
// ApplyDefaults it is always fully populated: list fields are non-nil and
// every enumerated field holds one of its allowed values.
type AdvisoryRecord struct {
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
	PriceAssessment  string   `json:"price_assessment"`
	MechanicalRisk   string   `json:"mechanical_risk"`
	InfoCompleteness string   `json:"info_completeness"`
	QuestionsToAsk   []string `json:"questions_to_ask"`
	Summary          string   `json:"summary"`
	Citations        []string `json:"citations"`
}

// ApplyDefaults fills every field the model left absent with its documented
// default, and canonicalizes enumerated fields: values are matched
// case-insensitively against the allowed vocabulary, and out-of-vocabulary
// values fall back to the field's default. The policy is a fixed table so
// adding an optional field is a one-line edit.
func (a *AdvisoryRecord) ApplyDefaults() {
	listDefaults := []*[]string{&a.Pros, &a.Cons, &a.QuestionsToAsk, &a.Citations}
	for _, field := range listDefaults {
		if *field == nil {
			*field = []string{}
		}
	}

	enumDefaults := []struct {
		field   *string
		allowed []string
		def     string
	}{
		{&a.PriceAssessment, []string{PriceUnder, PriceAt, PriceOver, PriceUnknown}, PriceUnknown},
		{&a.MechanicalRisk, []string{LevelLow, LevelMedium, LevelHigh}, LevelMedium},
		{&a.InfoCompleteness, []string{LevelLow, LevelMedium, LevelHigh}, LevelMedium},
	}
	for _, field := range enumDefaults {
		*field.field = canonicalize(*field.field, field.allowed, field.def)
	}
}

func canonicalize(value string, allowed []string, def string) string {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range allowed {
		if strings.EqualFold(trimmed, candidate) {
			return candidate
		}
	}
	return def
}
