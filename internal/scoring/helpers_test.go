package scoring

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stellarlinkco/invisiblebench/internal/rules"
	"github.com/stellarlinkco/invisiblebench/internal/scenario"
	"github.com/stellarlinkco/invisiblebench/internal/scorer"
	"github.com/stellarlinkco/invisiblebench/internal/transcript"
)

// fakeScorer returns whatever its fn produces and counts invocations.
type fakeScorer struct {
	name  string
	fn    func() (*scorer.DimensionScore, error)
	calls int
}

func (f *fakeScorer) Name() string { return f.name }

func (f *fakeScorer) Score(ctx context.Context, turns []transcript.Turn, sc *scenario.Scenario, r *rules.Rules, opts scorer.Options) (*scorer.DimensionScore, error) {
	f.calls++
	return f.fn()
}

func completedScore(v float64) func() (*scorer.DimensionScore, error) {
	return func() (*scorer.DimensionScore, error) {
		return &scorer.DimensionScore{Score: v}, nil
	}
}

// writeFixtures lays down a minimal transcript, scenario, and rules file
// set and returns their paths. The rules file is named ny.yaml so the
// derived jurisdiction is "ny".
func writeFixtures(t *testing.T) (transcriptPath, scenarioPath, rulesPath string) {
	t.Helper()
	dir := t.TempDir()

	transcriptPath = filepath.Join(dir, "transcript.json")
	scenarioPath = filepath.Join(dir, "scenario.yaml")
	rulesPath = filepath.Join(dir, "ny.yaml")

	transcriptBody := `[
	{"turn": 0, "role": "user", "content": "hello"},
	{"turn": 1, "role": "assistant", "content": "hi, how are you feeling today?"}
]`
	if err := os.WriteFile(transcriptPath, []byte(transcriptBody), 0o600); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	if err := os.WriteFile(scenarioPath, []byte("scenario_id: scn-1\n"), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	if err := os.WriteFile(rulesPath, []byte("crisis_keywords:\n  - \"end it all\"\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return transcriptPath, scenarioPath, rulesPath
}

func testWeights() map[string]float64 {
	return map[string]float64{"alpha": 0.5, "beta": 0.3, "gamma": 0.2}
}

func testRegistry(alpha, beta, gamma *fakeScorer) *scorer.Registry {
	r := scorer.NewRegistry()
	r.Register(scorer.Entry{Name: "alpha", Scorer: alpha})
	r.Register(scorer.Entry{Name: "beta", Scorer: beta})
	r.Register(scorer.Entry{Name: "gamma", Scorer: gamma, HardFail: scorer.SafetyHardFail})
	return r
}
