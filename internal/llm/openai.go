package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient sends the same single prompt to an OpenAI-compatible
// completions endpoint. The sampling knobs the API understands are taken
// from NewGenerationParameters so both backends sample alike.
type OpenAIClient struct {
	model  openai.CompletionNewParamsModel
	client *openai.Client
}

// NewOpenAIClient builds a completions client. baseURL may point at a local
// OpenAI-compatible server; an API key is then optional.
func NewOpenAIClient(apiKey, baseURL, model string) (*OpenAIClient, error) {
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("api key or base url required")
	}
	if model == "" {
		model = string(openai.CompletionNewParamsModelGPT3_5TurboInstruct)
	}
	// One request per Generate, as with the Kobold transport.
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &OpenAIClient{
		model:  openai.CompletionNewParamsModel(model),
		client: &cli,
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	p := NewGenerationParameters(prompt)
	resp, err := c.client.Completions.New(ctx, openai.CompletionNewParams{
		Model: c.model,
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(p.Prompt),
		},
		MaxTokens:   openai.Int(int64(p.MaxLength)),
		Temperature: openai.Float(p.Temperature),
		TopP:        openai.Float(p.TopP),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{StatusCode: apiErr.StatusCode, Body: errorBody(apiErr)}
		}
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", &ResponseError{Reason: "no choices returned"}
	}
	return resp.Choices[0].Text, nil
}

func errorBody(apiErr *openai.Error) string {
	if raw := apiErr.RawJSON(); raw != "" {
		return raw
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return http.StatusText(apiErr.StatusCode)
}
