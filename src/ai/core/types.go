package core

import (
	"context"
	"encoding/json"
)

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
	EnableWebSearch     bool
}

// Completion is a single non-streaming model reply.
type Completion struct {
	// Text is choices[0].message.content with surrounding whitespace trimmed.
	Text string
	// Citations holds source URLs for search-augmented providers; empty otherwise.
	Citations []string
	// Raw is the provider's response body, kept for diagnostic passthroughs.
	Raw json.RawMessage
}

// Client is a provider-agnostic interface for LLM completions.
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (*Completion, error)
}
