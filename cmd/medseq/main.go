// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/poiesic/medseq"
	"github.com/poiesic/medseq/checkpoint"
	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/explore"
	"github.com/poiesic/medseq/gridsearch"
	"github.com/poiesic/medseq/report"
	"github.com/poiesic/medseq/training"
	"github.com/urfave/cli/v2"
)

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		EnvVars:  []string{"MEDSEQ_DB"},
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "medseq",
		Usage: "Medication sequence embeddings and next-drug models",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"MEDSEQ_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import encounters from a JSON-lines file",
				Action: importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "JSON-lines file with one encounter per line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of encounters to write per batch",
						Value: medseq.DefaultImportBatchSize,
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Grid-search word2vec and clustering hyperparameters",
				Action: searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "analogies",
						Aliases:  []string{"a"},
						Usage:    "Analogy questions file used to score embeddings",
						EnvVars:  []string{"MEDSEQ_ANALOGIES"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Directory for result tables and figures",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "grids",
						Usage: "YAML file overriding the word2vec and clustering grids",
					},
					&cli.IntFlag{
						Name:  "folds",
						Usage: "Number of cross-validation folds",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent fold evaluations (0 uses all CPUs but one)",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Word2vec random seed",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "display",
						Usage: "Open figures in the image viewer instead of saving them (default: detect)",
					},
				},
			},
			{
				Name:   "train",
				Usage:  "Start a new next-drug training run",
				Action: trainCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Checkpoint directory for the new run",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "epochs",
						Usage: "Total number of training epochs",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Examples per batch",
						Value: 256,
					},
					&cli.IntFlag{
						Name:  "sequence-length",
						Usage: "Number of previous orders fed to the network",
						Value: 30,
					},
					&cli.IntFlag{
						Name:  "embedding-dim",
						Usage: "Word2vec vector size",
						Value: 128,
					},
					&cli.IntFlag{
						Name:  "hidden",
						Usage: "Recurrent layer width",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "sample",
						Usage: "Restrict the run to a random sample of N encounters (0 uses all)",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed for sampling and initialization",
						Value: 1,
					},
				},
			},
			{
				Name:   "resume",
				Usage:  "Resume an interrupted training run",
				Action: resumeCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "checkpoint",
						Aliases:  []string{"c"},
						Usage:    "Checkpoint directory of the run",
						EnvVars:  []string{"MEDSEQ_CHECKPOINT"},
						Required: true,
					},
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*medseq.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	db, err := medseq.NewDatabase(dbPath, medseq.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func importCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	f, err := os.Open(c.String("input"))
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Import(ctx, f, c.Int("batch-size"))
	if err != nil {
		return fmt.Errorf("import failed after %d encounters: %w", n, err)
	}
	fmt.Fprintf(os.Stderr, "Imported %d encounters\n", n)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f, err := os.Open(c.String("analogies"))
	if err != nil {
		return err
	}
	analogies, err := embedding.ParseAnalogies(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to read analogies: %w", err)
	}

	grids := gridsearch.DefaultGrids()
	if path := c.String("grids"); path != "" {
		if grids, err = gridsearch.LoadGrids(path); err != nil {
			return err
		}
	}

	opts := []explore.ConfigOption{
		explore.WithOutputDir(c.String("out")),
		explore.WithFolds(c.Int("folds")),
		explore.WithGrids(grids),
		explore.WithEmbedding(embedding.NewConfig(embedding.WithSeed(c.Uint64("seed")))),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, explore.WithPoolSize(size))
	}
	cfg := explore.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid search configuration: %w", err)
	}

	interactive := report.DetectInteractive(os.Stdout)
	if c.IsSet("display") {
		interactive = c.Bool("display")
	}
	sink, err := report.DetectSink(interactive, cfg.OutputDir, slog.Default())
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Output: %s\n", cfg.OutputDir)
	fmt.Fprintf(os.Stderr, "Word2vec candidates: %d\n", grids.Word2Vec.Size())
	fmt.Fprintf(os.Stderr, "Clustering candidates: %d\n", grids.Clustering.Size())
	fmt.Fprintln(os.Stderr)

	rep, err := db.Explore(ctx, cfg, analogies, sink)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Best hyperparameters for word2vec embeddings: %s\n", rep.BestEmbedding)
	fmt.Fprintf(os.Stderr, "Final analogy accuracy: %.3f\n", rep.FinalAccuracy)
	fmt.Fprintf(os.Stderr, "Best cluster count: %d (silhouette %.3f)\n", rep.BestClusters, rep.Silhouette)
	return nil
}

func progress() training.Option {
	fd := os.Stderr.Fd()
	terminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return training.WithProgress(training.NewProgressTracker(os.Stderr, training.VerbosityFor(terminal)))
}

func trainCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hp := core.Hyperparameters{
		Epochs:         c.Int("epochs"),
		BatchSize:      c.Int("batch-size"),
		SequenceLength: c.Int("sequence-length"),
		EmbeddingDim:   c.Int("embedding-dim"),
	}
	if err := core.ValidateHyperparameters(hp); err != nil {
		return err
	}
	if c.Int("sample") < 0 {
		return fmt.Errorf("sample must not be negative")
	}

	dir, err := checkpoint.Create(c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	trainer, err := db.NewTrainer(dir, hp,
		training.WithHidden(c.Int("hidden")),
		training.WithSample(c.Int("sample")),
		training.WithSeed(c.Uint64("seed")),
		progress(),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Checkpoint: %s\n", dir.Path())
	fmt.Fprintln(os.Stderr)

	summary, err := trainer.Run(ctx)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Trained %d epochs on %d examples\n", summary.EpochsTrained, summary.Examples)
	return nil
}

func resumeCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dir, err := checkpoint.Open(c.String("checkpoint"))
	if err != nil {
		return fmt.Errorf("failed to open checkpoint directory: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	resumer, err := db.NewResumer(dir, progress())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Checkpoint: %s\n", dir.Path())
	fmt.Fprintln(os.Stderr)

	summary, err := resumer.Run(ctx)
	if err != nil {
		return fmt.Errorf("resume failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Resumed at epoch %d, trained %d of %d epochs\n",
		summary.DoneBefore, summary.EpochsTrained, summary.Hyperparameters.Epochs)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
