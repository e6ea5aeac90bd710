package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiClient is a Client backed by the Google Gemini API.
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a Gemini-backed Client. The flash model handles
// both text and image input.
func NewGeminiClient(ctx context.Context, apiKey string) (Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	model.SetTemperature(0.1)
	return &geminiClient{client: client, model: model}, nil
}

func (c *geminiClient) GenerateContent(ctx context.Context, prompt string, image []byte) (string, error) {
	parts := []genai.Part{genai.Text(prompt)}
	if len(image) > 0 {
		parts = append(parts, genai.ImageData("jpeg", image))
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}
	return string(text), nil
}

func (c *geminiClient) Close() error {
	return c.client.Close()
}
