// Package ai defines the model capabilities consumed by the pipeline stages.
// Implementations live in subpackages; tests supply scripted stubs.
package ai

import "context"

// TextGenerator produces text from a user prompt under an optional system
// directive. Calls are synchronous and are not retried by callers.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// Embedder maps texts to fixed-length vectors, one per input, in input order.
// For a fixed model version the output is deterministic.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
