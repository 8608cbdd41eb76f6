// Package scorer defines the dimension scoring contract and the five
// dimension scorers: memory, trauma, belonging, compliance, safety.
package scorer

import (
	"context"

	"github.com/stellarlinkco/invisiblebench/internal/llm"
	"github.com/stellarlinkco/invisiblebench/internal/rules"
	"github.com/stellarlinkco/invisiblebench/internal/scenario"
	"github.com/stellarlinkco/invisiblebench/internal/transcript"
)

// Status is the lifecycle state of a single dimension score.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Dimension names, in canonical pipeline order.
const (
	DimensionMemory     = "memory"
	DimensionTrauma     = "trauma"
	DimensionBelonging  = "belonging"
	DimensionCompliance = "compliance"
	DimensionSafety     = "safety"
)

// DimensionNames returns the canonical pipeline order.
func DimensionNames() []string {
	return []string{
		DimensionMemory,
		DimensionTrauma,
		DimensionBelonging,
		DimensionCompliance,
		DimensionSafety,
	}
}

// Violation records rule-level evidence for reporting and hard-fail
// detection.
type Violation struct {
	Rule     string `json:"rule"`
	Turn     int    `json:"turn"`
	Evidence string `json:"evidence,omitempty"`
}

// DimensionScore is the uniform output of every scorer and pipeline
// stage. Score and Breakdown are meaningful only when Status is
// StatusCompleted; Error only when Status is StatusError. A score is
// never both completed and errored.
type DimensionScore struct {
	Status    Status             `json:"status"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	Error     string             `json:"error,omitempty"`

	// HardFails are categorical violations that force the overall
	// score to zero. Violations are non-fatal evidence records.
	HardFails  []Violation `json:"hard_fails,omitempty"`
	Violations []Violation `json:"violations,omitempty"`

	// Details carries scorer-specific flags such as crisis_detected or
	// critical_failure. Values may arrive in loose representations
	// (bools, numbers, strings) and must be coerced before use.
	Details map[string]any `json:"details,omitempty"`
}

// NotStarted returns a fresh pending score.
func NotStarted() *DimensionScore {
	return &DimensionScore{Status: StatusNotStarted}
}

// Completed reports whether the score finished successfully.
func (d *DimensionScore) Completed() bool {
	return d != nil && d.Status == StatusCompleted
}

// Options carries per-invocation scorer collaborators.
type Options struct {
	Provider llm.Provider
	AllowLLM bool
}

// Scorer evaluates one dimension of a conversation transcript. Scorers
// return an error on unrecoverable internal failure; they never return
// sentinel scores for failures.
type Scorer interface {
	Name() string
	Score(ctx context.Context, turns []transcript.Turn, sc *scenario.Scenario, r *rules.Rules, opts Options) (*DimensionScore, error)
}
