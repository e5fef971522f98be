package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient summarizes through an OpenAI-compatible chat completions
// endpoint (OpenAI itself, or any server speaking the same protocol via
// a custom base URL).
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

func NewOpenAIClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{model: model, opts: opts}, nil
}

func (c *OpenAIClient) Summarize(ctx context.Context, text string, p Params) (string, error) {
	client := openai.NewClient(c.opts...)

	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(text, p)),
		},
	}
	if p.MaxLength > 0 {
		// Words to tokens, with headroom so the model is not cut mid-sentence.
		req.MaxTokens = openai.Int(int64(p.MaxLength) * 2)
	}
	if p.DoSample {
		if p.Temperature > 0 {
			req.Temperature = openai.Float(p.Temperature)
		}
		if p.TopP > 0 {
			req.TopP = openai.Float(p.TopP)
		}
	} else {
		req.Temperature = openai.Float(0)
	}

	resp, err := client.Chat.Completions.New(ctx, req)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) &&
			(apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode >= 500) {
			return "", &RetryableError{StatusCode: apierr.StatusCode, Message: apierr.Error()}
		}
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("openai: empty summary text")
	}
	return out, nil
}

func (c *OpenAIClient) Name() string { return "openai/" + c.model }

func (c *OpenAIClient) Close() {}
