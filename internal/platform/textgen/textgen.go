// Package textgen defines the single request/response text-generation
// capability that the analyzer and the template engine depend on.
package textgen

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by provider constructors when credentials are missing.
var ErrNotConfigured = errors.New("text generation provider not configured")

type Request struct {
	System string
	Prompt string

	Temperature      *float64
	MaxTokens        int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64

	// JSON asks the provider for a single JSON object as output.
	JSON bool
}

type Generator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
	// Name identifies the backing model, e.g. "gpt-4" or "gemini-2.0-flash".
	Name() string
}

func Float(v float64) *float64 { return &v }
