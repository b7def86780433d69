package domain

import "context"

// Llm abstracts any chat/LLM provider.
type Llm interface {
	// Generate takes the full prompt for one turn and returns the model's
	// raw reply text.
	Generate(ctx context.Context, prompt string) (string, error)
}
