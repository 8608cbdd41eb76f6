package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/stellarlinkco/invisiblebench/internal/llm"
	"github.com/stellarlinkco/invisiblebench/internal/rules"
	"github.com/stellarlinkco/invisiblebench/internal/runstate"
	"github.com/stellarlinkco/invisiblebench/internal/scenario"
	"github.com/stellarlinkco/invisiblebench/internal/scorer"
	"github.com/stellarlinkco/invisiblebench/internal/transcript"
)

// Config tunes an Engine.
type Config struct {
	// Weights maps dimension name to composite weight. Required.
	Weights map[string]float64

	// SaveInterval persists a checkpoint after every Nth scorer
	// invocation. Values below 1 default to 1.
	SaveInterval int

	// AllowLLM lets LLM-capable scorers consult the provider.
	AllowLLM bool

	// Progress, when set, is called after each dimension completes.
	Progress func(dimension string, score float64)

	// Log receives operator-facing warnings; defaults to stderr.
	Log io.Writer
}

// Engine runs the scoring pipeline. The five scorers execute strictly
// sequentially in registry order; different Engine instances may run
// concurrently as long as they score distinct run keys.
type Engine struct {
	registry *scorer.Registry
	provider llm.Provider
	store    *runstate.Store
	cfg      Config
}

// NewEngine builds an Engine. The registry is injected, never global;
// store may be nil to disable persistence; provider may be nil when
// LLM-assisted scoring is off.
func NewEngine(registry *scorer.Registry, provider llm.Provider, store *runstate.Store, cfg Config) (*Engine, error) {
	if registry == nil {
		return nil, errors.New("scoring: nil registry")
	}
	if len(registry.Entries()) == 0 {
		return nil, errors.New("scoring: empty registry")
	}
	if len(cfg.Weights) == 0 {
		return nil, errors.New("scoring: missing weights")
	}
	if cfg.SaveInterval < 1 {
		cfg.SaveInterval = 1
	}
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}

	return &Engine{
		registry: registry,
		provider: provider,
		store:    store,
		cfg:      cfg,
	}, nil
}

// Score evaluates one transcript against one scenario and rule set.
// This is the sole public entry point.
func (e *Engine) Score(ctx context.Context, p Params) (*Result, error) {
	if e == nil {
		return nil, errors.New("scoring: nil engine")
	}
	if ctx == nil {
		return nil, errors.New("scoring: nil context")
	}

	iterations := p.Iterations
	if iterations == 0 {
		iterations = 1
	}
	if iterations < 1 {
		return nil, fmt.Errorf("scoring: iterations must be >= 1 (got %d)", p.Iterations)
	}

	if iterations == 1 {
		return e.scoreOnce(ctx, p)
	}
	return e.scoreIterations(ctx, p, iterations)
}

func (e *Engine) scoreOnce(ctx context.Context, p Params) (*Result, error) {
	turns, err := transcript.Load(p.TranscriptPath)
	if err != nil {
		return nil, err
	}
	sc, err := scenario.Load(p.ScenarioPath)
	if err != nil {
		return nil, err
	}
	rls, err := rules.Load(p.RulesPath)
	if err != nil {
		return nil, err
	}

	// Resume state must load before any persistence: the initial
	// checkpoint save may target the same file the caller is resuming
	// from.
	dims, err := e.startingDimensions(p)
	if err != nil {
		return nil, err
	}

	var state *runstate.State
	persist := e.store != nil && p.ModelName != ""
	if persist {
		key, err := runstate.GenerateKey(p.ModelName, p.RunID)
		if err != nil {
			return nil, err
		}

		if p.RunID != "" {
			prior, err := e.store.Load(key)
			if err != nil {
				return nil, err
			}
			if prior != nil && prior.Status == runstate.StatusCompleted && len(prior.Results) > 0 {
				var cached Result
				if err := json.Unmarshal(prior.Results, &cached); err == nil {
					return &cached, nil
				}
				fmt.Fprintf(e.cfg.Log, "scoring: run %s: cached results unreadable, rescoring\n", key)
			}
		}

		if e.store.DetectDuplicate(p.ModelName, sc.ScenarioID) {
			fmt.Fprintf(e.cfg.Log, "scoring: warning: %s already has a run for scenario %s\n", p.ModelName, sc.ScenarioID)
		}

		state = &runstate.State{
			RunKey:          key,
			ModelName:       p.ModelName,
			ScenarioID:      sc.ScenarioID,
			TranscriptPath:  p.TranscriptPath,
			ScenarioPath:    p.ScenarioPath,
			RulesPath:       p.RulesPath,
			StartTime:       time.Now().UTC().Format(time.RFC3339),
			Status:          runstate.StatusRunning,
			DimensionScores: dims,
		}
		if err := e.store.Save(state); err != nil {
			return nil, err
		}
	}

	opts := scorer.Options{Provider: e.provider, AllowLLM: e.cfg.AllowLLM}
	invocations := 0
	for _, ent := range e.registry.Entries() {
		if dims[ent.Name].Completed() {
			// Resumed dimension: prior score reused verbatim, the
			// scorer is not called again.
			continue
		}

		ent := ent
		ds := runIsolated(e.cfg.Log, ent.Name, func() (*scorer.DimensionScore, error) {
			return ent.Scorer.Score(ctx, turns, sc, rls, opts)
		})
		dims[ent.Name] = ds

		invocations++
		if state != nil && invocations%e.cfg.SaveInterval == 0 {
			state.DimensionScores = dims
			if err := e.store.Save(state); err != nil {
				// Background checkpoint: a transient persistence
				// hiccup must not abort a working evaluation.
				fmt.Fprintf(e.cfg.Log, "scoring: checkpoint save failed: %v\n", err)
			}
		}

		if ds.Completed() && e.cfg.Progress != nil {
			e.cfg.Progress(ent.Name, ds.Score)
		}
	}

	result := e.finalize(dims, sc, p)

	if state != nil {
		state.DimensionScores = dims
		state.Status = result.Status
		state.EndTime = time.Now().UTC().Format(time.RFC3339)
		if raw, err := json.Marshal(result); err == nil {
			state.Results = raw
		}
		if err := e.store.Save(state); err != nil {
			return nil, fmt.Errorf("scoring: save final state: %w", err)
		}
	}

	return result, nil
}

// startingDimensions yields the initial per-dimension state: either all
// not_started, or the validated contents of an explicit resume file.
// Completed dimensions are kept; errored and not-started ones will be
// retried.
func (e *Engine) startingDimensions(p Params) (map[string]*scorer.DimensionScore, error) {
	if !p.Resume || p.ResumeFile == "" {
		return e.freshDimensions(), nil
	}

	st, err := runstate.LoadStateFile(p.ResumeFile)
	if err != nil {
		return nil, err
	}

	dims := e.freshDimensions()
	for name, ds := range st.DimensionScores {
		if ds == nil {
			continue
		}
		if _, ok := dims[name]; !ok {
			continue
		}
		if ds.Status == scorer.StatusError {
			// Retry errored dimensions from scratch.
			dims[name] = scorer.NotStarted()
			continue
		}
		dims[name] = ds
	}
	return dims, nil
}

func (e *Engine) freshDimensions() map[string]*scorer.DimensionScore {
	dims := make(map[string]*scorer.DimensionScore, len(e.registry.Entries()))
	for _, name := range e.registry.Names() {
		dims[name] = scorer.NotStarted()
	}
	return dims
}

func (e *Engine) finalize(dims map[string]*scorer.DimensionScore, sc *scenario.Scenario, p Params) *Result {
	overall := weightedOverall(dims, e.cfg.Weights)

	reasons := hardFailReasons(e.registry.Entries(), dims)
	hardFail := len(reasons) > 0
	if hardFail {
		overall = 0.0
	}

	status := deriveStatus(e.registry.Names(), dims)

	llmMode := "offline"
	if e.cfg.AllowLLM {
		llmMode = "llm"
	}

	result := &Result{
		Status:            status,
		OverallScore:      overall,
		OverallPercentage: roundPercentage(overall),
		DimensionScores:   dims,
		WeightsApplied:    copyWeights(e.cfg.Weights),
		HardFail:          hardFail,
		HardFailReasons:   reasons,
		Metadata: Metadata{
			ScenarioID:   sc.ScenarioID,
			Jurisdiction: rules.Jurisdiction(p.RulesPath),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			LLMMode:      llmMode,
		},
		ErrorSummary: errorSummary(e.registry.Names(), dims),
		Variance:     nil,
	}
	result.Iterations = []IterationSummary{{
		Iteration:       1,
		OverallScore:    result.OverallScore,
		DimensionScores: dims,
		HardFail:        hardFail,
	}}
	return result
}
