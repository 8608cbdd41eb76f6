// Package runstate persists evaluation run checkpoints, one JSON file
// per run key. Writes are atomic (temp file then rename) so a crash
// mid-write never leaves an unparseable file at the canonical path.
package runstate

import (
	"encoding/json"
	"time"

	"github.com/stellarlinkco/invisiblebench/internal/scorer"
)

// Run statuses.
const (
	StatusRunning             = "running"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusError               = "error"
)

// State is the persisted record for a single evaluation run.
type State struct {
	RunKey         string `json:"run_key"`
	ModelName      string `json:"model_name"`
	ScenarioID     string `json:"scenario_id"`
	TranscriptPath string `json:"transcript_path"`
	ScenarioPath   string `json:"scenario_path"`
	RulesPath      string `json:"rules_path"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time,omitempty"`
	Status         string `json:"status"`

	// DimensionScores keys are exactly the five dimension names.
	DimensionScores map[string]*scorer.DimensionScore `json:"dimension_scores"`

	// Results holds the final aggregated output once the run
	// finalizes. Kept raw so this package stays below the scoring
	// result types.
	Results json.RawMessage `json:"results,omitempty"`

	LastUpdated string `json:"last_updated"`
}

// Touch refreshes the last-updated timestamp.
func (s *State) Touch() {
	if s == nil {
		return
	}
	s.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}
