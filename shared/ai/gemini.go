package ai

import (
	"context"
	"fmt"

	"comment-insights/shared/config"

	"google.golang.org/genai"
)

// Client is a thin wrapper around the Gemini API used by the remote
// classification and insight-synthesis paths. It is only constructed when
// an API key is configured; a nil *Client means local-only mode.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  cfg.Model,
	}, nil
}

// GenerateText sends a plain prompt and returns the model's free-text reply.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

// GenerateJSON sends a prompt with a structural output schema attached and
// returns the raw JSON reply for the caller to parse. The schema constrains
// the model's reply shape; it does not guarantee it, so callers must still
// validate what comes back.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) ([]byte, error) {
	text, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (c *Client) generate(ctx context.Context, prompt string, genConfig *genai.GenerateContentConfig) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}
	return text, nil
}
