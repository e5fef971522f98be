package summarize

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStats_EmptySnapshot(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected count 0, got %d", snap.Count)
	}
}

func TestStats_RecordAndAggregate(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{10, 20, 30, 40} {
		s.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("expected count 4, got %d", snap.Count)
	}
	if snap.MinMs != 10 || snap.MaxMs != 40 {
		t.Errorf("expected min 10 / max 40, got %d / %d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 25 {
		t.Errorf("expected avg 25, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 25 {
		t.Errorf("expected p50 25, got %f", snap.P50Ms)
	}
}

func TestStats_NegativeDurationClamped(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-5 * time.Millisecond)
	snap := s.Snapshot()
	if snap.MinMs != 0 {
		t.Errorf("expected clamped min 0, got %d", snap.MinMs)
	}
}

func TestStats_WindowPruning(t *testing.T) {
	s := NewStats(10 * time.Millisecond)
	s.Record(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	s.Record(7 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Errorf("expected expired sample pruned, count %d", snap.Count)
	}
}

func TestInstrumented_RecordsAndDelegates(t *testing.T) {
	stats := NewStats(time.Hour)
	s := Instrumented(Mock{}, stats)

	out, err := s.Summarize(context.Background(), "one two three four five", Params{MaxLength: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "one two three." {
		t.Errorf("expected truncated mock summary, got %q", out)
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected 1 recorded sample, got %d", stats.Snapshot().Count)
	}
	if s.Name() != "mock" {
		t.Errorf("expected delegated name, got %q", s.Name())
	}
}

func TestBuildPrompt_LengthBounds(t *testing.T) {
	p := buildPrompt("hello world", Params{MinLength: 30, MaxLength: 130})
	for _, want := range []string{"between 30 and 130 words", "hello world"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q: %q", want, p)
		}
	}
}
