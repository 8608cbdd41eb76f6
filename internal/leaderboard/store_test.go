package leaderboard

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndTop(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	entries := []Entry{
		{Model: "model-a", ScenarioID: "scn-1", Jurisdiction: "ny", OverallScore: 0.9, LLMMode: "offline"},
		{Model: "model-a", ScenarioID: "scn-2", Jurisdiction: "ny", OverallScore: 0.7, LLMMode: "offline"},
		{Model: "model-b", ScenarioID: "scn-1", Jurisdiction: "ny", OverallScore: 0.95, HardFail: true, LLMMode: "llm"},
		{Model: "model-c", ScenarioID: "scn-1", Jurisdiction: "ca", OverallScore: 0.5, LLMMode: "offline"},
	}
	for i := range entries {
		if err := s.Save(ctx, &entries[i]); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if entries[i].ID == 0 {
			t.Fatalf("Save: id not backfilled")
		}
	}

	top, err := s.Top(ctx, "ny", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Top: got %d entries want 2", len(top))
	}
	// model-a averages 0.8 with no hard fail; model-b scores higher but a
	// hard fail sorts it below clean models.
	if top[0].Model != "model-a" || top[1].Model != "model-b" {
		t.Fatalf("order: got %s, %s", top[0].Model, top[1].Model)
	}
	if math.Abs(top[0].OverallScore-0.8) > 1e-9 {
		t.Fatalf("avg: got %v want 0.8", top[0].OverallScore)
	}
	if !top[1].HardFail {
		t.Fatalf("model-b hard fail lost")
	}
}

func TestStore_TopValidation(t *testing.T) {
	s := newMemStore(t)

	if _, err := s.Top(context.Background(), "  ", 5); err == nil {
		t.Fatalf("blank jurisdiction: expected error")
	}

	top, err := s.Top(context.Background(), "nowhere", 0)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("empty jurisdiction: got %d entries", len(top))
	}
}

func TestStore_ModelHistory(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	old := Entry{Model: "model-a", ScenarioID: "scn-1", Jurisdiction: "ny", OverallScore: 0.6, LLMMode: "offline",
		EvalDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := Entry{Model: "model-a", ScenarioID: "scn-2", Jurisdiction: "ny", OverallScore: 0.8, LLMMode: "offline",
		EvalDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	other := Entry{Model: "model-b", ScenarioID: "scn-1", Jurisdiction: "ny", OverallScore: 0.7, LLMMode: "offline"}

	for _, e := range []*Entry{&old, &recent, &other} {
		if err := s.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	hist, err := s.ModelHistory(ctx, "model-a", "ny")
	if err != nil {
		t.Fatalf("ModelHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("history: got %d entries want 2", len(hist))
	}
	if hist[0].ScenarioID != "scn-2" || hist[1].ScenarioID != "scn-1" {
		t.Fatalf("order: got %s, %s", hist[0].ScenarioID, hist[1].ScenarioID)
	}
	if !hist[0].EvalDate.Equal(recent.EvalDate) {
		t.Fatalf("eval date: got %v want %v", hist[0].EvalDate, recent.EvalDate)
	}
}

func TestStore_SaveValidation(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, nil); err == nil {
		t.Fatalf("nil entry: expected error")
	}
	if err := s.Save(ctx, &Entry{Model: "m"}); err == nil {
		t.Fatalf("missing fields: expected error")
	}
}

func TestNewStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "lb.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	if err := s.Save(context.Background(), &Entry{
		Model: "m", ScenarioID: "s", Jurisdiction: "j", OverallScore: 0.5, LLMMode: "offline",
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestNewStore_EmptyPath(t *testing.T) {
	if _, err := NewStore("  "); err == nil {
		t.Fatalf("empty path: expected error")
	}
}
