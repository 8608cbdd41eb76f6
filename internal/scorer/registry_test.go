package scorer

import (
	"reflect"
	"testing"
)

func TestRegistry_OrderAndLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Entry{Name: "first", Scorer: &MemoryScorer{}})
	r.Register(Entry{Name: "second", Scorer: &TraumaScorer{}})

	want := []string{"first", "second"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names: got %v want %v", got, want)
	}

	e, ok := r.Get("second")
	if !ok || e.Name != "second" {
		t.Fatalf("Get: got %v ok=%v", e.Name, ok)
	}
	if _, ok := r.Get("absent"); ok {
		t.Fatalf("Get absent: expected miss")
	}
}

func TestRegistry_NameFallsBackToScorer(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Entry{Scorer: &SafetyScorer{}})

	if got := r.Names(); len(got) != 1 || got[0] != DimensionSafety {
		t.Fatalf("Names: got %v", got)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Entry{Name: "dup", Scorer: &MemoryScorer{}})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	r.Register(Entry{Name: "dup", Scorer: &TraumaScorer{}})
}

func TestRegistry_NilScorerPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on nil scorer")
		}
	}()
	NewRegistry().Register(Entry{Name: "x"})
}

func TestDefaultRegistry_PipelineOrder(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	if got := r.Names(); !reflect.DeepEqual(got, DimensionNames()) {
		t.Fatalf("Names: got %v want %v", got, DimensionNames())
	}

	compliance, ok := r.Get(DimensionCompliance)
	if !ok || compliance.HardFail == nil {
		t.Fatalf("compliance entry missing hard-fail checker")
	}
	safety, ok := r.Get(DimensionSafety)
	if !ok || safety.HardFail == nil {
		t.Fatalf("safety entry missing hard-fail checker")
	}
	memory, ok := r.Get(DimensionMemory)
	if !ok || memory.HardFail != nil {
		t.Fatalf("memory entry should have no hard-fail checker")
	}
}
