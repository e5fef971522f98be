package summarize

import (
	"context"
	"strings"
)

// Mock is a local placeholder backend: it truncates the input to the
// requested length instead of calling a model. Useful for tests and for
// running the service without credentials.
type Mock struct{}

func (Mock) Summarize(_ context.Context, text string, p Params) (string, error) {
	maxWords := p.MaxLength
	if maxWords <= 0 {
		maxWords = 50
	}
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	out := strings.Join(words, " ")
	if out != "" && !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out, nil
}

func (Mock) Name() string { return "mock" }

func (Mock) Close() {}
