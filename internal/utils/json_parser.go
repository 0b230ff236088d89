package utils

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParseError signals that no JSON object could be recovered from a model
// response. Raw carries the offending text for diagnostics.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "could not parse JSON from model output: " + truncateString(e.Raw, 100)
}

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// ParseAIJSON extracts and parses a single JSON object from AI output that
// may contain:
// - Pure JSON
// - JSON wrapped in markdown code fences (```json ... ```)
// - JSON with surrounding prose
// Tiers are tried in order; the first successful parse wins. If every tier
// fails the original input is returned inside a *ParseError.
func ParseAIJSON(input string, target interface{}) error {
	text := strings.TrimSpace(input)
	if text == "" {
		return &ParseError{Raw: input}
	}

	// Unwrap markdown code fences if present
	if m := fenceRe.FindStringSubmatch(text); len(m) > 1 {
		text = strings.TrimSpace(m[1])
	}

	// Try direct parsing first (most common case)
	if err := json.Unmarshal([]byte(text), target); err == nil {
		return nil
	}

	// Fallback: greedy span from the first '{' to the last '}'
	if extracted := extractJSONSpan(text); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	return &ParseError{Raw: input}
}

// extractJSONSpan returns the maximal substring delimited by the first '{'
// and the last '}' in the text, or "" when no such span exists.
func extractJSONSpan(input string) string {
	start := strings.Index(input, "{")
	end := strings.LastIndex(input, "}")
	if start < 0 || end <= start {
		return ""
	}
	return input[start : end+1]
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
