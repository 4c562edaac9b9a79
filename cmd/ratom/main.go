// Copyright 2026 The libratom Authors
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
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/alexey523/libratom/archive"
	"github.com/alexey523/libratom/deadletter"
	"github.com/alexey523/libratom/extract"
	"github.com/alexey523/libratom/ner"
	"github.com/alexey523/libratom/ner/openai"
	"github.com/alexey523/libratom/report"
	"github.com/alexey523/libratom/storage/sqlite"
)

func main() {
	app := &cli.App{
		Name:  "ratom",
		Usage: "Extract named entities from email archives into a relational database",
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
				Name:      "entities",
				Usage:     "Scan archive files and extract named entities from every message",
				ArgsUsage: "FILES_OR_DIRS...",
				Action:    entitiesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Path to the output SQLite database",
						Value:   "ratom.db",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Number of parallel extraction workers",
						EnvVars: []string{"RATOM_JOBS"},
						Value:   runtime.NumCPU(),
					},
					&cli.IntFlag{
						Name:    "chunk-size",
						Usage:   "Number of messages submitted to the pool per worker round",
						EnvVars: []string{"RATOM_MSG_BATCH_SIZE"},
						Value:   100,
					},
					&cli.IntFlag{
						Name:    "commit-batch-size",
						Usage:   "Buffered-entity count that triggers a database commit",
						EnvVars: []string{"RATOM_DB_COMMIT_BATCH_SIZE"},
						Value:   10_000,
					},
					&cli.IntFlag{
						Name:    "progress-step",
						Usage:   "Report progress every N processed messages",
						EnvVars: []string{"RATOM_MSG_PROGRESS_STEP"},
						Value:   10,
					},
					&cli.IntFlag{
						Name:    "max-text-length",
						Usage:   "Longest message text, in bytes, accepted for analysis",
						EnvVars: []string{"RATOM_MAX_TEXT_LENGTH"},
						Value:   1_000_000,
					},
					&cli.StringFlag{
						Name:  "model-host",
						Usage: "Entity-recognition service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Entity-recognition model name",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "dead-letter",
						Usage: "Directory for a dead-letter log of dropped commit batches (off when empty)",
					},
					&cli.IntFlag{
						Name:  "commit-retries",
						Usage: "Commit attempts before a batch is dropped",
						Value: 1,
					},
				},
			},
			{
				Name:      "report",
				Usage:     "Build file reports (size, digests, message counts) without extraction",
				ArgsUsage: "FILES_OR_DIRS...",
				Action:    reportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Path to the output SQLite database",
						Value:   "ratom.db",
					},
				},
			},
			{
				Name:      "emldump",
				Usage:     "Export selected messages from one archive as .eml files",
				ArgsUsage: "ARCHIVE",
				Action:    emldumpCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dest",
						Aliases: []string{"d"},
						Usage:   "Destination directory for exported messages",
						Value:   ".",
					},
					&cli.Int64SliceFlag{
						Name:     "id",
						Usage:    "Message identifier to export (repeatable)",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// collectArgPaths expands every positional argument into archive files.
func collectArgPaths(c *cli.Context) ([]string, error) {
	if c.NArg() == 0 {
		return nil, fmt.Errorf("at least one file or directory is required")
	}

	var paths []string
	for _, arg := range c.Args().Slice() {
		found, err := archive.CollectFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to collect files from %s: %w", arg, err)
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no archive files found")
	}

	return paths, nil
}

func entitiesCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := collectArgPaths(c)
	if err != nil {
		return err
	}

	nerConfig := ner.NewConfig(
		ner.WithHost(c.String("model-host")),
		ner.WithModel(c.String("model")),
	)
	if err := nerConfig.Validate(); err != nil {
		return fmt.Errorf("invalid model configuration: %w", err)
	}

	extractor, err := openai.NewExtractor(nerConfig)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	session, err := sqlite.Open(ctx, c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer session.Close()

	reports, err := report.Scan(ctx, session, paths, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to build file reports: %w", err)
	}

	total := 0
	for _, rpt := range reports {
		total += rpt.MsgCount
	}

	config := &extract.Config{
		Workers:         c.Int("jobs"),
		ChunkSize:       c.Int("chunk-size"),
		CommitBatchSize: c.Int("commit-batch-size"),
		ProgressStep:    c.Int("progress-step"),
		MaxTextLength:   c.Int("max-text-length"),
	}

	tracker := extract.NewProgressTracker(os.Stderr, total, config.ProgressStep)

	opts := []extract.Option{
		extract.WithConfig(config),
		extract.WithLogger(slog.Default()),
		extract.WithProgress(tracker.Increment),
	}

	if attempts := c.Int("commit-retries"); attempts > 1 {
		opts = append(opts, extract.WithCommitRetry(attempts, time.Second))
	}

	if dlPath := c.String("dead-letter"); dlPath != "" {
		dl, err := deadletter.Open(dlPath, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to open dead-letter log: %w", err)
		}
		defer dl.Close()
		opts = append(opts, extract.WithDeadLetter(dl))
	}

	pipeline, err := extract.NewPipeline(session, extractor, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("out"))
	fmt.Fprintf(os.Stderr, "Files: %d, messages: %d, workers: %d\n", len(paths), total, config.Workers)

	source := archive.NewFileSource(paths, slog.Default())

	tracker.Start()
	status, err := pipeline.Run(ctx, source)
	if err != nil {
		return fmt.Errorf("extraction failed to start: %w", err)
	}
	if status == extract.StatusCancelled {
		fmt.Fprintln(os.Stderr)
		return cli.Exit("Extraction cancelled, partial results written", int(status))
	}

	tracker.Finish()
	fmt.Fprintf(os.Stderr, "Done in %s\n", tracker.Elapsed().Round(time.Millisecond))
	return nil
}

func reportCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := collectArgPaths(c)
	if err != nil {
		return err
	}

	session, err := sqlite.Open(ctx, c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer session.Close()

	reports, err := report.Scan(ctx, session, paths, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to build file reports: %w", err)
	}

	for _, rpt := range reports {
		fmt.Printf("%s  size=%d  messages=%d  sha256=%s\n", rpt.Path, rpt.Size, rpt.MsgCount, rpt.SHA256)
	}

	return nil
}

func emldumpCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one archive file is required")
	}

	written, err := archive.ExportMessages(c.Args().First(), c.Int64Slice("id"), c.String("dest"), slog.Default())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d message(s)\n", written)
	return nil
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
