package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stackcanvas/internal/config"
	"stackcanvas/internal/logging"
	"stackcanvas/internal/scenario"
)

// Version is set at build time with -ldflags "-X stackcanvas/internal/app.Version=...".
var Version = "dev"

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the stackcanvas command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "stackcanvas",
		Short:         "Infrastructure canvas editor with undo/redo history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML configuration file")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides the config file")

	root.AddCommand(
		newREPLCommand(),
		newReplayCommand(),
		newCatalogCommand(),
		newVersionCommand(),
	)
	return root
}

// loadRuntime resolves the config file and logger from the persistent flags.
func loadRuntime(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.NewWithWriter(cmd.ErrOrStderr(), level), nil
}

func newREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Edit a canvas interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			a := New(cmd.Context(), cfg, WithLogger(logger))
			defer a.Close()
			return a.RunREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// replayReport is the JSON printed by the replay command.
type replayReport struct {
	Scenario string `json:"scenario,omitempty"`
	Steps    int    `json:"steps"`
	NoOps    int    `json:"noOps"`
	State    any    `json:"state"`
	History  any    `json:"history"`
	Status   any    `json:"status"`
}

func newReplayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file.yaml>",
		Short: "Replay a scenario file and print the resulting canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			scn, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			return Replay(cmd.Context(), cfg, logger, scn, cmd.OutOrStdout())
		},
	}
}

// Replay runs scn on a fresh App driven by a virtual clock and writes a
// JSON report to out.
func Replay(ctx context.Context, cfg config.Config, logger *slog.Logger, scn *scenario.Scenario, out io.Writer) error {
	clock := scenario.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	a := New(ctx, cfg,
		WithLogger(logger),
		WithClock(clock.Now),
		WithInitialState(scn.Initial),
	)
	defer a.Close()

	res, err := scenario.Run(a, clock, scn)
	if err != nil {
		if scn.Name != "" {
			return fmt.Errorf("replay %s: %w", scn.Name, err)
		}
		return fmt.Errorf("replay: %w", err)
	}
	logger.Info("replay finished", "scenario", scn.Name, "steps", res.Steps, "noops", res.NoOps)

	return writeJSON(out, replayReport{
		Scenario: scn.Name,
		Steps:    res.Steps,
		NoOps:    res.NoOps,
		State:    a.State(),
		History:  a.HistorySummary(),
		Status:   a.HistoryStatus(),
	})
}

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the block types that can be placed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			a := New(cmd.Context(), cfg, WithLogger(logger))
			defer a.Close()
			printCatalog(cmd.OutOrStdout(), a)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of stackcanvas",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stackcanvas version %s\n", Version)
		},
	}
}
