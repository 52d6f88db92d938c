package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the external generation model.
type Client interface {
	// GenerateText sends a prompt and returns the raw model text.
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	// GenerateObject sends a prompt with a JSON schema constraint and returns
	// the raw object the model produced.
	GenerateObject(ctx context.Context, prompt, system string, schema json.RawMessage) (json.RawMessage, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
type PlaceholderClient struct{}

// GenerateText returns ErrNotConfigured.
func (PlaceholderClient) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return "", ErrNotConfigured
}

// GenerateObject returns ErrNotConfigured.
func (PlaceholderClient) GenerateObject(ctx context.Context, prompt, system string, schema json.RawMessage) (json.RawMessage, error) {
	return nil, ErrNotConfigured
}
