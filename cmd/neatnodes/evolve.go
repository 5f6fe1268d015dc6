package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/baldhumanity/neatnodes/neat"
	"github.com/baldhumanity/neatnodes/neat/dataset"
	"github.com/baldhumanity/neatnodes/neat/genomejson"
	"github.com/baldhumanity/neatnodes/neat/history"
)

type evolveOptions struct {
	data        string
	config      string
	out         string
	history     string
	historyPath string
	telemetry   string
	seed        uint64
	verbose     bool
}

func newEvolveCmd() *cobra.Command {
	opts := &evolveOptions{}
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Evolve a population against a dataset and save the champion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvolve(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.data, "data", "", "CSV dataset to evolve against")
	f.StringVar(&opts.config, "config", "", "properties, INI or YAML config file (defaults when empty)")
	f.StringVar(&opts.out, "out", "champion.json", "file to write the champion genome to")
	f.StringVar(&opts.history, "history", "", "run history backend: memory or sqlite (disabled when empty)")
	f.StringVar(&opts.historyPath, "history-path", "neatnodes.db", "sqlite database for --history=sqlite")
	f.StringVar(&opts.telemetry, "telemetry", "", "CSV file to stream generation statistics to")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed, overriding SEED from the config")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runEvolve(cmd *cobra.Command, opts *evolveOptions) (err error) {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	cfg := neat.DefaultConfig()
	if opts.config != "" {
		if cfg, err = neat.LoadConfig(opts.config); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	ds, err := dataset.Load(opts.data)
	if err != nil {
		return err
	}

	runID := history.NewRunID()
	var recorders history.Recorders

	if opts.telemetry != "" {
		f, createErr := os.Create(opts.telemetry)
		if createErr != nil {
			return fmt.Errorf("creating telemetry file: %w", createErr)
		}
		defer closeInto(&err, f, "telemetry file")
		recorders = append(recorders, history.NewCSVRecorder(f, runID))
	}

	var store history.Store
	run := history.Run{ID: runID, StartedAt: time.Now().UTC(), Dataset: opts.data, Seed: cfg.Seed}
	if opts.history != "" {
		if store, err = history.NewStore(opts.history, opts.historyPath); err != nil {
			return err
		}
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("init history store: %w", err)
		}
		defer closeInto(&err, store, "history store")

		rendered, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}
		run.Config = string(rendered)
		if err := store.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		recorders = append(recorders, history.NewRecorder(store, runID))
	}

	logger.Info("evolution started",
		"run", runID,
		"data", opts.data,
		"inputs", ds.InputCount(),
		"outputs", ds.OutputCount(),
		"rows", ds.RowCount(),
		"seed", cfg.Seed)

	champion, err := neat.Evolve(ctx, ds, cfg, neat.WithLogger(logger), neat.WithRecorder(recorders))
	if err != nil {
		interrupted := errors.Is(err, ctx.Err()) && ctx.Err() != nil
		if champion == nil || !interrupted {
			return err
		}
		logger.Warn("evolution interrupted, saving best genome so far", "err", err)
	}

	fitness, _ := champion.Fitness()
	comment := fmt.Sprintf("run %s, fitness %.6f", runID, fitness)
	if err := genomejson.WriteFile(opts.out, champion, comment); err != nil {
		return err
	}

	if store != nil {
		var buf bytes.Buffer
		if err := genomejson.Encode(&buf, champion, comment); err != nil {
			return err
		}
		run.ChampionFitness = fitness
		run.Champion = buf.String()
		// The interrupted context would abort the write.
		if err := store.SaveRun(context.WithoutCancel(ctx), run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "champion fitness %.6f (%d nodes, %d connections) written to %s\n",
		fitness, champion.NodeCount(), champion.ConnectionCount(), opts.out)
	return nil
}
