package summary

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Defaults for bullet formatting. Both are configurable because observed
// deployments disagree on the exact values.
const (
	DefaultMinSentenceLen = 20
	DefaultMarker         = "•"
)

// SummarizeFunc produces a partial summary for a single chunk. The function
// owns its generation parameters, including any sampling randomness, so
// repeated assembly of the same chunks may yield different text.
type SummarizeFunc func(ctx context.Context, chunk string) (string, error)

// Options controls how partial summaries are combined.
type Options struct {
	Bullets        bool   // Render each sentence as a marked line.
	MinSentenceLen int    // Sentences with this many runes or fewer are dropped in bullet mode.
	Marker         string // Bullet marker, e.g. "•" or "-".
}

// Assemble calls fn once per chunk, in order, and joins the partial
// summaries with single spaces. With Bullets set, the combined text is
// re-segmented into sentences and rendered one marked line per sentence.
func Assemble(ctx context.Context, chunks []string, fn SummarizeFunc, opts Options) (string, error) {
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		part, err := fn(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		parts = append(parts, part)
	}

	combined := strings.Join(parts, " ")
	if !opts.Bullets {
		return combined, nil
	}
	return Bulletize(combined, opts), nil
}

// Bulletize splits text into sentences and renders each as a marked line,
// dropping short fragments as likely noise.
func Bulletize(text string, opts Options) string {
	minLen := opts.MinSentenceLen
	if minLen <= 0 {
		minLen = DefaultMinSentenceLen
	}
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	var lines []string
	for _, sentence := range SplitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		// Length is measured in runes so accented text is filtered the
		// same as plain ASCII.
		if utf8.RuneCountInString(sentence) <= minLen {
			continue
		}
		lines = append(lines, marker+" "+sentence)
	}
	return strings.Join(lines, "\n")
}

// SplitSentences splits on sentence-terminal punctuation followed by
// whitespace. A deliberately simple heuristic: abbreviations and decimal
// points will over-split, which bullet rendering tolerates.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
