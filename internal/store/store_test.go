package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kulurunagavardhanreddy/lumio/internal/summarize"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "summaries.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := Record{
		ID:         "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Title:      "standup notes",
		Source:     "text",
		Transcript: "we shipped the thing",
		Summary:    "• The thing was shipped.",
		Params:     summarize.Params{MaxLength: 130, MinLength: 30, DoSample: true, Temperature: 0.7, TopP: 0.9},
		Bullets:    true,
		ChunkCount: 1,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := s.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(rec, *got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SaveRequiresID(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(Record{}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)

	// ULID-style keys sort by time; later ids sort higher.
	ids := []string{"01AAA", "01BBB", "01CCC"}
	for _, id := range ids {
		if err := s.Save(Record{ID: id, Title: id}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	records, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []string
	for _, r := range records {
		got = append(got, r.ID)
	}
	want := []string{"01CCC", "01BBB", "01AAA"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ListLimit(t *testing.T) {
	s := openTestStore(t)
	for _, id := range []string{"01AAA", "01BBB", "01CCC"} {
		if err := s.Save(Record{ID: id}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	records, err := s.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(Record{ID: "01AAA"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete("01AAA"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get("01AAA"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete("01AAA"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}
