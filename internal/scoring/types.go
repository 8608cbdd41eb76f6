// Package scoring drives the five-dimension evaluation pipeline:
// per-scorer error isolation, checkpointed resume, weighted
// aggregation with hard-fail overrides, and repeated-iteration
// variance aggregation.
package scoring

import (
	"github.com/stellarlinkco/invisiblebench/internal/scorer"
)

// Result is the orchestrator's terminal output for one evaluation.
type Result struct {
	Status            string                            `json:"status"`
	OverallScore      float64                           `json:"overall_score"`
	OverallPercentage float64                           `json:"overall_percentage"`
	DimensionScores   map[string]*scorer.DimensionScore `json:"dimension_scores"`
	WeightsApplied    map[string]float64                `json:"weights_applied"`
	HardFail          bool                              `json:"hard_fail"`
	HardFailReasons   []string                          `json:"hard_fail_reasons,omitempty"`
	Metadata          Metadata                          `json:"metadata"`
	ErrorSummary      string                            `json:"error_summary,omitempty"`

	// Iterations always holds at least one element; a single-iteration
	// run wraps itself for schema uniformity with multi-iteration runs.
	Iterations []IterationSummary `json:"iterations"`

	// Variance is nil for single-iteration runs.
	Variance *Variance `json:"variance"`
}

type Metadata struct {
	ScenarioID   string `json:"scenario_id"`
	Jurisdiction string `json:"jurisdiction"`
	Timestamp    string `json:"timestamp"`
	LLMMode      string `json:"llm_mode"`
}

// IterationSummary is one complete pass through the pipeline.
type IterationSummary struct {
	Iteration       int                               `json:"iteration"`
	OverallScore    float64                           `json:"overall_score"`
	DimensionScores map[string]*scorer.DimensionScore `json:"dimension_scores"`
	HardFail        bool                              `json:"hard_fail"`
}

// Variance summarizes spread across repeated iterations.
type Variance struct {
	OverallMean   float64                    `json:"overall_mean"`
	OverallStdDev float64                    `json:"overall_stddev"`
	OverallMin    float64                    `json:"overall_min"`
	OverallMax    float64                    `json:"overall_max"`
	Dimensions    map[string]DimensionSpread `json:"dimensions,omitempty"`
}

// DimensionSpread is per-dimension central tendency and spread.
type DimensionSpread struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Params are the inputs to Engine.Score, the sole public entry point.
type Params struct {
	TranscriptPath string
	ScenarioPath   string
	RulesPath      string

	// ModelName enables persistence and run keying when non-empty.
	ModelName string

	// RunID pins the run key for explicit resume or idempotent replay.
	RunID string

	// Iterations defaults to 1; values below 1 are rejected.
	Iterations int

	// Resume loads ResumeFile as the starting dimension state.
	Resume     bool
	ResumeFile string
}
