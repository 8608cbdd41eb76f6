package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/stellarlinkco/invisiblebench/internal/runstate"
	"github.com/stellarlinkco/invisiblebench/internal/scorer"
)

// weightedOverall computes the composite score. Only completed
// dimensions contribute; errored or not-started dimensions contribute
// zero without shrinking the denominator, so a partial run scores lower
// than a clean one with identical per-dimension quality. Preserved as
// observed product behavior.
func weightedOverall(dims map[string]*scorer.DimensionScore, weights map[string]float64) float64 {
	total := 0.0
	for name, weight := range weights {
		ds, ok := dims[name]
		if !ok || !ds.Completed() {
			continue
		}
		total += ds.Score * weight
	}
	return total
}

// hardFailReasons walks registry entries in pipeline order and collects
// reasons from each entry's checker.
func hardFailReasons(entries []scorer.Entry, dims map[string]*scorer.DimensionScore) []string {
	var out []string
	for _, ent := range entries {
		if ent.HardFail == nil {
			continue
		}
		out = append(out, ent.HardFail(dims[ent.Name])...)
	}
	return out
}

// deriveStatus maps the set of per-dimension statuses to the overall
// run status. All completed -> completed; all error -> error; any mix
// -> completed_with_errors. Dimensions still not_started at the end are
// only reachable by resuming an incomplete checkpoint; they degrade the
// status the same way an error does. Changing that boundary needs
// product sign-off.
func deriveStatus(names []string, dims map[string]*scorer.DimensionScore) string {
	completed := 0
	errored := 0
	for _, name := range names {
		ds := dims[name]
		switch {
		case ds.Completed():
			completed++
		case ds != nil && ds.Status == scorer.StatusError:
			errored++
		}
	}

	switch {
	case completed == len(names):
		return runstate.StatusCompleted
	case completed == 0 && errored == len(names):
		return runstate.StatusError
	case completed == 0:
		return runstate.StatusError
	default:
		return runstate.StatusCompletedWithErrors
	}
}

// errorSummary renders a stable human-readable digest of every errored
// dimension.
func errorSummary(names []string, dims map[string]*scorer.DimensionScore) string {
	var parts []string
	for _, name := range names {
		ds := dims[name]
		if ds == nil || ds.Status != scorer.StatusError {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, ds.Error))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ")
}

func roundPercentage(score float64) float64 {
	return math.Round(score*100*100) / 100
}

func copyWeights(weights map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(weights))
	for k, v := range weights {
		out[k] = v
	}
	return out
}
