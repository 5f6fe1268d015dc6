package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "neatnodes",
		Short:         "Evolve neural network genomes against CSV datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEvolveCmd(), newScoreCmd(), newInspectCmd())
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// closeInto closes c and reports a failure through err unless err already
// holds an error.
func closeInto(err *error, c io.Closer, what string) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing %s: %w", what, cerr)
	}
}
