package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/invisiblebench/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "bench",
		Short:         "Score benchmark transcripts against safety rubrics",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newScoreCmd(st))
	root.AddCommand(newRunsCmd(st))
	root.AddCommand(newLeaderboardCmd(st))
	return root
}

func loadConfig(st *cliState) error {
	if st == nil {
		return fmt.Errorf("bench: nil state")
	}
	if _, err := os.Stat(st.configPath); err != nil {
		// No config file is fine; defaults plus env vars apply.
		st.cfg = config.Default()
		return nil
	}
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}
