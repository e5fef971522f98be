package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient summarizes through the Gemini API.
type GeminiClient struct {
	apiKey string
	model  string
}

func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{apiKey: apiKey, model: model}, nil
}

func (c *GeminiClient) Summarize(ctx context.Context, text string, p Params) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{}
	if p.MaxLength > 0 {
		cfg.MaxOutputTokens = int32(p.MaxLength) * 2
	}
	if p.DoSample {
		if p.Temperature > 0 {
			cfg.Temperature = genai.Ptr(float32(p.Temperature))
		}
		if p.TopP > 0 {
			cfg.TopP = genai.Ptr(float32(p.TopP))
		}
	} else {
		cfg.Temperature = genai.Ptr(float32(0))
	}

	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(buildPrompt(text, p)), cfg)
	if err != nil {
		if isGeminiRateLimit(err) {
			return "", &RetryableError{StatusCode: http.StatusTooManyRequests, Message: err.Error()}
		}
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("gemini: empty summary text")
	}
	return out, nil
}

// The genai SDK surfaces quota errors as opaque messages, so match on the
// known markers the API uses.
func isGeminiRateLimit(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (c *GeminiClient) Name() string { return "gemini/" + c.model }

func (c *GeminiClient) Close() {}
