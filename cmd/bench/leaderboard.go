package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/invisiblebench/internal/leaderboard"
)

type leaderboardOptions struct {
	jurisdiction string
	model        string
	top          int
	format       string
}

func newLeaderboardCmd(st *cliState) *cobra.Command {
	var opts leaderboardOptions

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show ranked model scores per jurisdiction",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.jurisdiction, "jurisdiction", "", "jurisdiction name")
	cmd.Flags().StringVar(&opts.model, "model", "", "show history for one model instead of the ranking")
	cmd.Flags().IntVar(&opts.top, "top", 20, "top N models")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table|json")

	return cmd
}

func runLeaderboard(cmd *cobra.Command, st *cliState, opts *leaderboardOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("leaderboard: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("leaderboard: nil options")
	}

	jurisdiction := strings.TrimSpace(opts.jurisdiction)
	if jurisdiction == "" {
		return fmt.Errorf("leaderboard: missing --jurisdiction")
	}

	lb, err := leaderboard.NewStore(st.cfg.Storage.LeaderboardPath)
	if err != nil {
		return err
	}
	defer lb.Close()

	var entries []leaderboard.Entry
	if model := strings.TrimSpace(opts.model); model != "" {
		entries, err = lb.ModelHistory(cmd.Context(), model, jurisdiction)
	} else {
		entries, err = lb.Top(cmd.Context(), jurisdiction, opts.top)
	}
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(opts.format)) {
	case "", "table":
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tMODEL\tSCORE\tHARD FAIL\tMODE\tDATE")
		for i, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%.4f\t%t\t%s\t%s\n",
				i+1,
				e.Model,
				e.OverallScore,
				e.HardFail,
				e.LLMMode,
				e.EvalDate.UTC().Format("2006-01-02 15:04:05Z"),
			)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("leaderboard: invalid --format %q (expected table|json)", opts.format)
	}
}
