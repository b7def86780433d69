package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

const geminiModel = "gemini-2.0-flash-001"

type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient builds the Gemini adapter. The API key comes from the
// GEMINI_API_KEY / GOOGLE_API_KEY environment the genai SDK reads itself.
func NewGeminiClient() domain.Llm {
	ctx := context.TODO()

	client, err := genai.NewClient(
		ctx,
		&genai.ClientConfig{
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		},
	)
	if err != nil {
		panic(fmt.Errorf("creating genai client: %w", err))
	}

	return &GeminiClient{client: client}
}

// Generate sends one fully built prompt and returns the raw reply text. The
// prompt already carries the system instructions and serialized history, so a
// single-shot generation is all that's needed per turn.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		geminiModel,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}
