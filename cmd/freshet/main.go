// Copyright 2026 Lindenhart Labs
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
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lindenhart/freshet"
	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/corpus"
	"github.com/lindenhart/freshet/evals"
	"github.com/lindenhart/freshet/index"
	"github.com/lindenhart/freshet/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "freshet",
		Usage: "Time-aware evidence retrieval over a document corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "prepare",
				Usage:  "Load documents into the corpus store",
				Action: prepareCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "jsonl",
						Usage: "JSONL corpus file with id, text, timestamp fields",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Directory of .txt files; timestamps taken from file modification time",
					},
				},
			},
			{
				Name:   "build",
				Usage:  "Build the retrieval index over the stored corpus",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "svd-dim",
						Usage: "Dense projection dimensionality",
						Value: 128,
					},
					&cli.IntFlag{
						Name:  "max-vocab",
						Usage: "Maximum vocabulary size for the dense projection",
						Value: 2000,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Tokenizer worker pool size (0 = number of CPUs)",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Run one query through the escalation pipeline",
				ArgsUsage: "<query terms>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to YAML pipeline config",
					},
					&cli.StringFlag{
						Name:  "now",
						Usage: "Reference time as an ISO-8601 date (defaults to wall clock)",
					},
					&cli.BoolFlag{
						Name:  "page-rank",
						Usage: "Use the PageRank centrality variant",
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Evaluate the pipeline against a JSONL question set",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "qa",
						Usage:    "JSONL question file with question, gold_latest fields",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to YAML pipeline config",
					},
					&cli.StringFlag{
						Name:  "now",
						Usage: "Reference time as an ISO-8601 date (defaults to wall clock)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func prepareCommand(c *cli.Context) error {
	ctx := context.Background()

	jsonlPath := c.String("jsonl")
	folderPath := c.String("folder")
	if (jsonlPath == "") == (folderPath == "") {
		return fmt.Errorf("exactly one of --jsonl or --folder is required")
	}

	var docs []core.Document
	if jsonlPath != "" {
		store, err := corpus.LoadJSONL(jsonlPath)
		if err != nil {
			return fmt.Errorf("loading corpus: %w", err)
		}
		docs = store.Documents()
	} else {
		var err error
		docs, err = docsFromFolder(folderPath)
		if err != nil {
			return fmt.Errorf("loading folder: %w", err)
		}
	}

	engine, err := freshet.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	if err := engine.PutDocuments(ctx, docs); err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Prepared %d documents\n", len(docs))
	return nil
}

// docsFromFolder reads every .txt file in a directory tree as one document,
// using the file modification time as its timestamp.
func docsFromFolder(root string) ([]core.Document, error) {
	var docs []core.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil
		}
		docs = append(docs, core.Document{
			ID:        core.IDFromContent(text),
			Text:      text,
			Timestamp: info.ModTime().UTC().Format("2006-01-02"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := freshet.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	opts := []index.Option{
		index.WithDim(c.Int("svd-dim")),
		index.WithMaxVocab(c.Int("max-vocab")),
	}
	if n := c.Int("pool-size"); n > 0 {
		opts = append(opts, index.WithPoolSize(n))
	}

	start := time.Now()
	if err := engine.BuildIndex(ctx, opts...); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Index built in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query terms are required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	now, err := parseNow(c)
	if err != nil {
		return err
	}

	engine, err := freshet.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	var popts []pipeline.Option
	if c.Bool("page-rank") {
		popts = append(popts, pipeline.WithPageRank())
	}
	pipe, err := engine.NewPipeline(ctx, cfg, popts...)
	if err != nil {
		return fmt.Errorf("assembling pipeline: %w", err)
	}

	resp, err := pipe.Run(ctx, query, now)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func evalCommand(c *cli.Context) error {
	ctx := context.Background()

	questions, err := evals.LoadQuestions(c.String("qa"))
	if err != nil {
		return fmt.Errorf("loading questions: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	now, err := parseNow(c)
	if err != nil {
		return err
	}

	engine, err := freshet.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	pipe, err := engine.NewPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("assembling pipeline: %w", err)
	}

	evaluator, err := evals.New(pipe)
	if err != nil {
		return err
	}

	report, err := evaluator.Run(ctx, questions, now)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Printf("Questions:    %d\n", report.N)
	fmt.Printf("Exact match:  %.3f (%d/%d)\n", report.ExactMatch, report.Hits, report.N)
	fmt.Printf("Mean budget:  %.1f\n", report.MeanK)
	for _, out := range report.Outcomes {
		mark := "MISS"
		if out.Hit {
			mark = "HIT "
		}
		fmt.Printf("  %s k=%-4d %s -> %s\n", mark, out.K, out.Question.Question, out.TopID)
	}
	return nil
}

func loadConfig(c *cli.Context) (pipeline.Config, error) {
	if path := c.String("config"); path != "" {
		return pipeline.LoadConfig(path)
	}
	return pipeline.DefaultConfig(), nil
}

func parseNow(c *cli.Context) (time.Time, error) {
	raw := c.String("now")
	if raw == "" {
		return time.Time{}, nil
	}
	now, err := core.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now value %q: %w", raw, err)
	}
	return now, nil
}

func setupLogger(c *cli.Context) error {
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
