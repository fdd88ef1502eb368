package llm

import "context"

// DefaultMaxContextLength is the context-length cap sent with every request.
// Chunking never produces pieces longer than this.
const DefaultMaxContextLength = 2048

// Generator turns a full prompt into the model's raw completion text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
