// Package llm defines the completion service the assistant consults when
// structural lookups run out: selector synthesis, plan decomposition and
// page description.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o-mini"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := provider.Complete(ctx, llm.Request{
//	    Prompt:    "Summarize this page ...",
//	    MaxTokens: 150,
//	})
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the service answers without any content.
var ErrEmptyResponse = errors.New("completion returned no content")

// Request is a single-prompt completion request. Every prompt the assistant
// sends is deterministic, so Temperature is normally zero.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider defines the interface for completion services.
//
// Complete returns the trimmed completion text. Any transport, quota or
// decoding failure is returned as an error; callers treat every error as
// "this tier produced nothing" and move on.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)

	// GetModel returns the model name being used.
	GetModel() string
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f ProviderFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// GetModel returns "func".
func (f ProviderFunc) GetModel() string { return "func" }
