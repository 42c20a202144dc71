package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// GeminiModel calls the Gemini API through google.golang.org/genai and asks
// for a JSON response.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", wrapAPIError(err)
	}
	return resp.Text(), nil
}

// wrapAPIError turns a 429 from the API into a *RateLimitError carrying the
// RetryInfo delay, when the server sent one.
func wrapAPIError(err error) error {
	apiErr, ok := asAPIError(err)
	if !ok || apiErr.Code != http.StatusTooManyRequests {
		return err
	}
	return &RateLimitError{RetryAfter: retryDelay(apiErr.Details), Err: err}
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}

func retryDelay(details []map[string]any) time.Duration {
	for _, d := range details {
		if t, _ := d["@type"].(string); t != retryInfoType {
			continue
		}
		s, _ := d["retryDelay"].(string)
		if dur, err := time.ParseDuration(s); err == nil && dur > 0 {
			return dur
		}
	}
	return 0
}
