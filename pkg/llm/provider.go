// Package llm defines the optional model-invocation capability consumed by
// the content analyzer and suggestion engine. The browsing core degrades to
// heuristic-only output whenever no provider is configured or a call fails,
// so implementations never need to guarantee availability.
package llm

import "context"

// Options tunes a single execution.
type Options struct {
	// MaxTokens caps the completion length (0 uses the provider default)
	MaxTokens int

	// Temperature controls sampling randomness (0 uses the provider default)
	Temperature float64
}

// Provider executes a prompt against a language model and returns the
// completion text.
type Provider interface {
	Execute(ctx context.Context, prompt string, opts Options) (string, error)
}
