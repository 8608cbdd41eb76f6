package scorer

import (
	"context"
	"errors"
	"strings"

	"github.com/stellarlinkco/invisiblebench/internal/rules"
	"github.com/stellarlinkco/invisiblebench/internal/scenario"
	"github.com/stellarlinkco/invisiblebench/internal/transcript"
)

// MemoryScorer checks longitudinal recall: for each scenario probe, the
// assistant must surface the probed fact at or after the probe turn.
// Memory scoring is purely deterministic and never consults an LLM.
type MemoryScorer struct{}

func (MemoryScorer) Name() string {
	return DimensionMemory
}

func (s *MemoryScorer) Score(ctx context.Context, turns []transcript.Turn, sc *scenario.Scenario, r *rules.Rules, opts Options) (*DimensionScore, error) {
	if sc == nil {
		return nil, errors.New("memory: nil scenario")
	}
	if len(turns) == 0 {
		return nil, errors.New("memory: empty transcript")
	}

	assistant := transcript.AssistantTurns(turns)

	if len(sc.Probes) == 0 {
		return &DimensionScore{
			Score: 1.0,
			Breakdown: map[string]float64{
				"probes_total": 0,
				"probe_recall": 1.0,
			},
		}, nil
	}

	recalled := 0
	var violations []Violation
	for _, probe := range sc.Probes {
		if probeRecalled(assistant, probe) {
			recalled++
			continue
		}
		violations = append(violations, Violation{
			Rule:     "probe_missed",
			Turn:     probe.Turn,
			Evidence: truncateEvidence(probe.Fact),
		})
	}

	recall := float64(recalled) / float64(len(sc.Probes))
	return &DimensionScore{
		Score: recall,
		Breakdown: map[string]float64{
			"probes_total":    float64(len(sc.Probes)),
			"probes_recalled": float64(recalled),
			"probe_recall":    recall,
		},
		Violations: violations,
	}, nil
}

func probeRecalled(assistant []transcript.Turn, probe scenario.Probe) bool {
	keywords := probe.ExpectedKeywords
	if len(keywords) == 0 && strings.TrimSpace(probe.Fact) != "" {
		keywords = []string{probe.Fact}
	}
	if len(keywords) == 0 {
		return false
	}

	for _, t := range assistant {
		if t.Turn < probe.Turn {
			continue
		}
		if _, ok := containsAnyFold(t.Content, keywords); ok {
			return true
		}
	}
	return false
}
