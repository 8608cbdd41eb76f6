package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/invisiblebench/internal/leaderboard"
	"github.com/stellarlinkco/invisiblebench/internal/llm"
	"github.com/stellarlinkco/invisiblebench/internal/runstate"
	"github.com/stellarlinkco/invisiblebench/internal/scorer"
	"github.com/stellarlinkco/invisiblebench/internal/scoring"
)

type scoreOptions struct {
	transcript string
	scenario   string
	rules      string
	model      string
	runID      string
	iterations int
	resume     bool
	resumeFile string
	output     string
	noSave     bool
}

func newScoreCmd(st *cliState) *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one transcript against a scenario and jurisdiction rules",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.transcript, "transcript", "", "path to transcript file (JSON or JSONL)")
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "path to scenario file")
	cmd.Flags().StringVar(&opts.rules, "rules", "", "path to jurisdiction rules file")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (enables run persistence)")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "explicit run id for resume or replay")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 1, "number of scoring iterations")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "resume from a checkpoint file")
	cmd.Flags().StringVar(&opts.resumeFile, "resume-file", "", "checkpoint file to resume from")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "skip leaderboard recording")

	_ = cmd.MarkFlagRequired("transcript")
	_ = cmd.MarkFlagRequired("scenario")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func runScore(cmd *cobra.Command, st *cliState, opts *scoreOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("score: missing config (internal error)")
	}

	output := strings.ToLower(strings.TrimSpace(opts.output))
	if output != "table" && output != "json" {
		return fmt.Errorf("score: invalid output format %q", opts.output)
	}

	var provider llm.Provider
	if st.cfg.Scoring.AllowLLM {
		p, err := llm.DefaultProviderFromConfig(st.cfg)
		if err != nil {
			return fmt.Errorf("score: %w", err)
		}
		provider = p
	}

	store, err := runstate.NewStore(st.cfg.Storage.RunsDir)
	if err != nil {
		return err
	}

	engine, err := scoring.NewEngine(scorer.DefaultRegistry(), provider, store, scoring.Config{
		Weights:      st.cfg.Scoring.Weights,
		SaveInterval: st.cfg.Scoring.SaveInterval,
		AllowLLM:     st.cfg.Scoring.AllowLLM,
		Progress: func(dimension string, score float64) {
			fmt.Fprintf(cmd.ErrOrStderr(), "scored %s: %.3f\n", dimension, score)
		},
		Log: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := engine.Score(ctx, scoring.Params{
		TranscriptPath: opts.transcript,
		ScenarioPath:   opts.scenario,
		RulesPath:      opts.rules,
		ModelName:      strings.TrimSpace(opts.model),
		RunID:          strings.TrimSpace(opts.runID),
		Iterations:     opts.iterations,
		Resume:         opts.resume,
		ResumeFile:     opts.resumeFile,
	})
	if err != nil {
		return err
	}

	if !opts.noSave && strings.TrimSpace(opts.model) != "" {
		if err := recordLeaderboard(ctx, st, opts.model, result); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "score: leaderboard save failed: %v\n", err)
		}
	}

	switch output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		printResultTable(cmd, result)
		return nil
	}
}

func recordLeaderboard(ctx context.Context, st *cliState, model string, result *scoring.Result) error {
	lb, err := leaderboard.NewStore(st.cfg.Storage.LeaderboardPath)
	if err != nil {
		return err
	}
	defer lb.Close()

	return lb.Save(ctx, &leaderboard.Entry{
		Model:        strings.TrimSpace(model),
		ScenarioID:   result.Metadata.ScenarioID,
		Jurisdiction: result.Metadata.Jurisdiction,
		OverallScore: result.OverallScore,
		HardFail:     result.HardFail,
		LLMMode:      result.Metadata.LLMMode,
	})
}

func printResultTable(cmd *cobra.Command, result *scoring.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "scenario:     %s\n", result.Metadata.ScenarioID)
	fmt.Fprintf(out, "jurisdiction: %s\n", result.Metadata.Jurisdiction)
	fmt.Fprintf(out, "status:       %s\n", result.Status)
	fmt.Fprintf(out, "overall:      %.4f (%.2f%%)\n", result.OverallScore, result.OverallPercentage)

	names := make([]string, 0, len(result.DimensionScores))
	for name := range result.DimensionScores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ds := result.DimensionScores[name]
		switch {
		case ds.Completed():
			fmt.Fprintf(out, "  %-11s %.4f\n", name, ds.Score)
		case ds.Error != "":
			fmt.Fprintf(out, "  %-11s error: %s\n", name, ds.Error)
		default:
			fmt.Fprintf(out, "  %-11s %s\n", name, ds.Status)
		}
	}

	if result.HardFail {
		fmt.Fprintln(out, "HARD FAIL:")
		for _, reason := range result.HardFailReasons {
			fmt.Fprintf(out, "  - %s\n", reason)
		}
	}
	if result.ErrorSummary != "" {
		fmt.Fprintf(out, "errors: %s\n", result.ErrorSummary)
	}
	if result.Variance != nil {
		fmt.Fprintf(out, "variance: mean=%.4f stddev=%.4f min=%.4f max=%.4f over %d iterations\n",
			result.Variance.OverallMean, result.Variance.OverallStdDev,
			result.Variance.OverallMin, result.Variance.OverallMax, len(result.Iterations))
	}
}
