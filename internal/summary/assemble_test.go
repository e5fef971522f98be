package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssemble_SingleChunkPassthrough(t *testing.T) {
	fn := func(ctx context.Context, chunk string) (string, error) {
		return "Summary one.", nil
	}
	got, err := Assemble(context.Background(), []string{"x"}, fn, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Summary one." {
		t.Errorf("expected %q, got %q", "Summary one.", got)
	}
}

func TestAssemble_CallsOncePerChunkInOrder(t *testing.T) {
	var calls []string
	fn := func(ctx context.Context, chunk string) (string, error) {
		calls = append(calls, chunk)
		return "summary of " + chunk + ".", nil
	}
	chunks := []string{"alpha", "beta", "gamma"}
	got, err := Assemble(context.Background(), chunks, fn, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(chunks, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
	want := "summary of alpha. summary of beta. summary of gamma."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBulletize_CountsRunesNotBytes(t *testing.T) {
	// 19 runes but 22 bytes; the 20-rune threshold must drop it.
	if got := Bulletize("Très détaillé, oui.", Options{}); got != "" {
		t.Errorf("expected short accented sentence to be dropped, got %q", got)
	}
	// 23 runes stays.
	want := "• Très détaillé, oui oui."
	if got := Bulletize("Très détaillé, oui oui.", Options{}); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAssemble_BulletMode(t *testing.T) {
	responses := map[string]string{
		"x": "This is sentence one about topics.",
		"y": "This is sentence two about other things.",
	}
	fn := func(ctx context.Context, chunk string) (string, error) {
		return responses[chunk], nil
	}
	got, err := Assemble(context.Background(), []string{"x", "y"}, fn, Options{Bullets: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "• This is sentence one about topics.\n• This is sentence two about other things."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAssemble_ShortFragmentDroppedOnlyInBulletMode(t *testing.T) {
	fn := func(ctx context.Context, chunk string) (string, error) {
		return "Ok. This longer sentence survives the cut.", nil
	}

	plain, err := Assemble(context.Background(), []string{"x"}, fn, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(plain, "Ok.") {
		t.Errorf("plain mode should keep short fragments, got %q", plain)
	}

	bulleted, err := Assemble(context.Background(), []string{"x"}, fn, Options{Bullets: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(bulleted, "Ok.") {
		t.Errorf("bullet mode should drop short fragments, got %q", bulleted)
	}
	if bulleted != "• This longer sentence survives the cut." {
		t.Errorf("unexpected bulleted output %q", bulleted)
	}
}

func TestAssemble_ErrorStopsAndPropagates(t *testing.T) {
	boom := errors.New("model unavailable")
	var calls int
	fn := func(ctx context.Context, chunk string) (string, error) {
		calls++
		if calls == 2 {
			return "", boom
		}
		return "fine.", nil
	}
	_, err := Assemble(context.Background(), []string{"a", "b", "c"}, fn, Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected fn to stop after failure, called %d times", calls)
	}
}

func TestAssemble_NoChunks(t *testing.T) {
	fn := func(ctx context.Context, chunk string) (string, error) {
		t.Fatal("fn must not be called with no chunks")
		return "", nil
	}
	got, err := Assemble(context.Background(), nil, fn, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestAssemble_NonDeterministicFnPassesThrough(t *testing.T) {
	// The assembler must not hide caller-supplied randomness.
	n := 0
	fn := func(ctx context.Context, chunk string) (string, error) {
		n++
		return fmt.Sprintf("Variant %d of the same chunk text here.", n), nil
	}
	first, _ := Assemble(context.Background(), []string{"x"}, fn, Options{})
	second, _ := Assemble(context.Background(), []string{"x"}, fn, Options{})
	if first == second {
		t.Errorf("expected differing outputs from a sampling fn, got %q twice", first)
	}
}

func TestBulletize_CustomMarkerAndThreshold(t *testing.T) {
	text := "Tiny. A sentence of reasonable length indeed."
	got := Bulletize(text, Options{MinSentenceLen: 4, Marker: "-"})
	want := "- Tiny.\n- A sentence of reasonable length indeed."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "terminal punctuation",
			in:   "First one. Second one! Third one? Fourth",
			want: []string{"First one.", "Second one!", "Third one?", "Fourth"},
		},
		{
			name: "no trailing space keeps sentence intact",
			in:   "Version 1.2 shipped today.",
			want: []string{"Version 1.2 shipped today."},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "newline as delimiter",
			in:   "Line one.\nLine two.",
			want: []string{"Line one.", "Line two."},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, SplitSentences(tc.in)); diff != "" {
				t.Errorf("sentences mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
