package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/park285/Cheese-NumberOrder-bot/internal/config"
	"github.com/park285/Cheese-NumberOrder-bot/internal/msgcat"
	"github.com/park285/Cheese-NumberOrder-bot/internal/obslog"
	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
	"github.com/park285/Cheese-NumberOrder-bot/internal/tui"
)

type flags struct {
	level       int
	size        int
	seed        uint64
	messagesDir string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "numpuzzle",
		Short:         "Play the number-order memory puzzle in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			local, err := config.LoadLocal()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("level") {
				f.level = local.DefaultLevel
			}
			if !cmd.Flags().Changed("size") {
				f.size = local.DefaultSize
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			model, err := tui.New(opts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().IntVar(&f.level, "level", 1, "starting level (1 or 2)")
	cmd.Flags().IntVar(&f.size, "size", 3, "level 1 grid size (3, 4 or 5)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "shuffle seed for a repeatable board (0 for random)")
	cmd.Flags().StringVar(&f.messagesDir, "messages", os.Getenv("MESSAGES_DIR"), "directory of message catalog overrides")
	return cmd
}

// options builds the session options; logs go to a file so the terminal stays clean.
func (f flags) options() (tui.Options, error) {
	mode, err := puzzle.ModeFor(puzzle.Level(f.level), f.size)
	if err != nil {
		return tui.Options{}, err
	}
	catalog, err := msgcat.New(f.messagesDir)
	if err != nil {
		return tui.Options{}, fmt.Errorf("load messages: %w", err)
	}
	logOpts := obslog.OptionsFromEnv(filepath.Join("logs", "numpuzzle.log"))
	logOpts.Console = false
	logger, err := obslog.Build(logOpts)
	if err != nil {
		return tui.Options{}, err
	}
	obslog.Set(logger)

	opts := tui.Options{
		Mode:     mode,
		Messages: msgcat.NewPuzzleMessages(catalog),
		Logger:   logger.Named("tui"),
	}
	if f.seed != 0 {
		opts.Rand = puzzle.SeededRand(f.seed)
	}
	logger.Info("numpuzzle_start", zap.String("level", mode.Level.String()), zap.Int("size", mode.Size), zap.Uint64("seed", f.seed))
	return opts, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "numpuzzle:", err)
		_ = obslog.L().Sync()
		os.Exit(1)
	}
	_ = obslog.L().Sync()
}
