package scoring

import (
	"context"
	"math"
	"time"

	"github.com/stellarlinkco/invisiblebench/internal/scorer"
)

// scoreIterations runs the single-iteration pipeline N times strictly
// sequentially and aggregates spread. Sub-calls are forced to one
// iteration; each run is fully independent unless the caller pinned a
// shared run id.
func (e *Engine) scoreIterations(ctx context.Context, p Params, n int) (*Result, error) {
	results := make([]*Result, 0, n)
	for i := 0; i < n; i++ {
		sub := p
		sub.Iterations = 1
		res, err := e.scoreOnce(ctx, sub)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return aggregateIterations(results), nil
}

// aggregateIterations combines N complete iteration results: top-level
// scores are means, variance captures spread, and hard fail is raised
// if any iteration hard-failed.
func aggregateIterations(results []*Result) *Result {
	if len(results) == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0]
	}

	overall := make([]float64, 0, len(results))
	perDim := make(map[string][]float64)
	iterations := make([]IterationSummary, 0, len(results))

	hardFail := false
	var reasons []string
	seenReason := make(map[string]struct{})

	for i, res := range results {
		overall = append(overall, res.OverallScore)
		iterations = append(iterations, IterationSummary{
			Iteration:       i + 1,
			OverallScore:    res.OverallScore,
			DimensionScores: res.DimensionScores,
			HardFail:        res.HardFail,
		})

		if res.HardFail {
			hardFail = true
			for _, r := range res.HardFailReasons {
				if _, ok := seenReason[r]; ok {
					continue
				}
				seenReason[r] = struct{}{}
				reasons = append(reasons, r)
			}
		}

		for name, ds := range res.DimensionScores {
			if ds.Completed() {
				perDim[name] = append(perDim[name], ds.Score)
			}
		}
	}

	overallMean, overallStd := meanStdDev(overall)

	dims := make(map[string]*scorer.DimensionScore, len(perDim))
	spreads := make(map[string]DimensionSpread, len(perDim))
	last := results[len(results)-1]
	for name, lastDS := range last.DimensionScores {
		scores := perDim[name]
		if len(scores) == 0 {
			dims[name] = lastDS
			continue
		}
		mean, std := meanStdDev(scores)
		dims[name] = &scorer.DimensionScore{
			Status: scorer.StatusCompleted,
			Score:  mean,
		}
		spreads[name] = DimensionSpread{Mean: mean, StdDev: std}
	}

	// Per-iteration overalls are already zeroed on hard fail; the mean
	// stays the central tendency, the flag carries intent.
	aggOverall := overallMean

	return &Result{
		Status:            worstStatus(results),
		OverallScore:      aggOverall,
		OverallPercentage: roundPercentage(aggOverall),
		DimensionScores:   dims,
		WeightsApplied:    last.WeightsApplied,
		HardFail:          hardFail,
		HardFailReasons:   reasons,
		Metadata: Metadata{
			ScenarioID:   last.Metadata.ScenarioID,
			Jurisdiction: last.Metadata.Jurisdiction,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			LLMMode:      last.Metadata.LLMMode,
		},
		ErrorSummary: last.ErrorSummary,
		Iterations:   iterations,
		Variance: &Variance{
			OverallMean:   overallMean,
			OverallStdDev: overallStd,
			OverallMin:    minOf(overall),
			OverallMax:    maxOf(overall),
			Dimensions:    spreads,
		},
	}
}

func worstStatus(results []*Result) string {
	worst := ""
	rank := func(s string) int {
		switch s {
		case "completed":
			return 0
		case "completed_with_errors":
			return 1
		default:
			return 2
		}
	}
	for _, res := range results {
		if worst == "" || rank(res.Status) > rank(worst) {
			worst = res.Status
		}
	}
	return worst
}

func meanStdDev(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(values)))
	return mean, std
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	out := values[0]
	for _, v := range values[1:] {
		if v > out {
			out = v
		}
	}
	return out
}
