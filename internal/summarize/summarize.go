package summarize

import (
	"context"
	"fmt"
	"strings"
)

// Params are generation-time controls forwarded to the backing model.
// DoSample enables sampling so repeated calls on identical input yield
// different output; Temperature and TopP are ignored when it is off.
type Params struct {
	MaxLength   int     `json:"max_length"`
	MinLength   int     `json:"min_length"`
	DoSample    bool    `json:"do_sample"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// DefaultParams mirrors the service defaults for a one-shot summary.
func DefaultParams() Params {
	return Params{
		MaxLength:   130,
		MinLength:   30,
		DoSample:    true,
		Temperature: 0.7,
		TopP:        0.9,
	}
}

// Summarizer produces a summary for one chunk of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, p Params) (string, error)
	Name() string
	Close()
}

// buildPrompt renders the instruction sent to chat-style backends. Length
// bounds are expressed in words since chat models have no min/max token
// generation knobs comparable to seq2seq summarizers.
func buildPrompt(text string, p Params) string {
	var sb strings.Builder
	sb.WriteString("Summarize the following text as flowing prose.")
	if p.MinLength > 0 && p.MaxLength > 0 {
		fmt.Fprintf(&sb, " Use between %d and %d words.", p.MinLength, p.MaxLength)
	} else if p.MaxLength > 0 {
		fmt.Fprintf(&sb, " Use at most %d words.", p.MaxLength)
	}
	sb.WriteString(" Reply with the summary only, no preamble.\n\n")
	sb.WriteString(text)
	return sb.String()
}

const systemPrompt = "You are a precise summarization engine. You condense transcripts and documents without adding information."
