package scoring

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stellarlinkco/invisiblebench/internal/scorer"
)

func TestRunIsolated_Success(t *testing.T) {
	t.Parallel()

	ds := runIsolated(io.Discard, "alpha", func() (*scorer.DimensionScore, error) {
		return &scorer.DimensionScore{Score: 0.7, Error: "stale"}, nil
	})
	if ds.Status != scorer.StatusCompleted {
		t.Fatalf("status: got %q", ds.Status)
	}
	if ds.Score != 0.7 {
		t.Fatalf("score: got %v", ds.Score)
	}
	if ds.Error != "" {
		t.Fatalf("error field not cleared: %q", ds.Error)
	}
}

func TestRunIsolated_Error(t *testing.T) {
	t.Parallel()

	var log strings.Builder
	ds := runIsolated(&log, "beta", func() (*scorer.DimensionScore, error) {
		return nil, errors.New("connection refused")
	})
	if ds.Status != scorer.StatusError {
		t.Fatalf("status: got %q", ds.Status)
	}
	if want := "errors.errorString: connection refused"; ds.Error != want {
		t.Fatalf("error: got %q want %q", ds.Error, want)
	}
	if !strings.Contains(log.String(), "dimension beta failed") {
		t.Fatalf("log: got %q", log.String())
	}
}

func TestRunIsolated_Panic(t *testing.T) {
	t.Parallel()

	ds := runIsolated(io.Discard, "gamma", func() (*scorer.DimensionScore, error) {
		panic("nil map write")
	})
	if ds.Status != scorer.StatusError {
		t.Fatalf("status: got %q", ds.Status)
	}
	if !strings.Contains(ds.Error, "panic: nil map write") {
		t.Fatalf("error: got %q", ds.Error)
	}
}

func TestRunIsolated_NilScore(t *testing.T) {
	t.Parallel()

	ds := runIsolated(io.Discard, "delta", func() (*scorer.DimensionScore, error) {
		return nil, nil
	})
	if ds.Status != scorer.StatusError {
		t.Fatalf("status: got %q", ds.Status)
	}
	if !strings.Contains(ds.Error, "nil score") {
		t.Fatalf("error: got %q", ds.Error)
	}
}

func TestErrorDetail_TypedErrors(t *testing.T) {
	t.Parallel()

	// A typed stdlib error keeps its concrete type name.
	_, err := os.ReadFile("/definitely/not/a/file")
	if err == nil {
		t.Fatalf("expected read error")
	}
	detail := errorDetail(err)
	if !strings.HasPrefix(detail, "fs.PathError: ") {
		t.Fatalf("detail: got %q", detail)
	}

	// Wrapped errors report the wrapper's type.
	wrapped := fmt.Errorf("context: %w", errors.New("inner"))
	detail = errorDetail(wrapped)
	if !strings.Contains(detail, ": context: inner") {
		t.Fatalf("wrapped detail: got %q", detail)
	}

	if got := errorTypeName(nil); got != "" {
		t.Fatalf("nil error type: got %q", got)
	}
}
