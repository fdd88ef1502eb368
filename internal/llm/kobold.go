package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	generatePath = "/api/v1/generate"
	mimeJSON     = "application/json"
)

var responseValidator = validator.New(validator.WithRequiredStructEnabled())

type generateResponse struct {
	Results []generateResult `json:"results" validate:"required,min=1,dive"`
}

type generateResult struct {
	Text *string `json:"text" validate:"required"`
}

// KoboldClient calls a KoboldAI-compatible /api/v1/generate endpoint.
type KoboldClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewKoboldClient targets host ("localhost:5000" or a full http(s) base URL).
// A zero timeout leaves requests unbounded.
func NewKoboldClient(host string, timeout time.Duration) *KoboldClient {
	base := strings.TrimSuffix(host, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &KoboldClient{
		endpoint:   base + generatePath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the full URL requests are posted to.
func (c *KoboldClient) Endpoint() string {
	return c.endpoint
}

// Generate posts prompt with the default parameters and returns results[0].text.
func (c *KoboldClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(NewGenerationParameters(prompt))
	if err != nil {
		return "", fmt.Errorf("encode generation parameters: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", mimeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return decodeGenerateResponse(raw)
}

func decodeGenerateResponse(raw []byte) (string, error) {
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &ResponseError{Reason: "decode response", Cause: err}
	}
	if err := responseValidator.Struct(&out); err != nil {
		return "", &ResponseError{Reason: "missing results[0].text", Cause: err}
	}
	return *out.Results[0].Text, nil
}
