package service

import (
	"context"
	"fmt"
)

// AIClient is the interface for the external completion capability. The
// pipeline only needs instruction+content in, free text out; implementations
// are pluggable (any OpenAI-compatible provider) and tests use deterministic
// fakes.
type AIClient interface {
	// Complete sends a system instruction and user content to the chat
	// completions endpoint and returns the raw completion text.
	Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error)

	// CreateEmbeddings generates embeddings for texts
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool
}

// CompletionOptions bound a single completion request.
type CompletionOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// UpstreamError reports a non-success status from the completion service.
// It is surfaced to the caller as-is; no retry happens inside the pipeline.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API request failed with status %d: %s", e.Status, e.Body)
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
