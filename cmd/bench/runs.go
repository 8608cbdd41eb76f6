package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/invisiblebench/internal/runstate"
)

type runsOptions struct {
	model  string
	status string
	format string
}

func newRunsCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted run state",
	}
	cmd.AddCommand(newRunsListCmd(st))
	return cmd
}

func newRunsListCmd(st *cliState) *cobra.Command {
	var opts runsOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted runs",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", "", "filter by model name")
	cmd.Flags().StringVar(&opts.status, "status", "", "filter by run status")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table|json")

	return cmd
}

func runRunsList(cmd *cobra.Command, st *cliState, opts *runsOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("runs: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("runs: nil options")
	}

	store, err := runstate.NewStore(st.cfg.Storage.RunsDir)
	if err != nil {
		return err
	}

	states, err := store.List()
	if err != nil {
		return err
	}

	model := strings.TrimSpace(opts.model)
	status := strings.TrimSpace(opts.status)
	filtered := states[:0]
	for _, s := range states {
		if model != "" && s.ModelName != model {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		filtered = append(filtered, s)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].StartTime > filtered[j].StartTime })

	switch strings.ToLower(strings.TrimSpace(opts.format)) {
	case "", "table":
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN KEY\tMODEL\tSCENARIO\tSTATUS\tSTARTED")
		for _, s := range filtered {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.RunKey, s.ModelName, s.ScenarioID, s.Status, s.StartTime)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(filtered)
	default:
		return fmt.Errorf("runs: invalid --format %q (expected table|json)", opts.format)
	}
}
