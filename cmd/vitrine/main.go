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
	"strings"
	"time"

	"github.com/poiesic/vitrine"
	"github.com/poiesic/vitrine/config"
	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/reembed"
	"github.com/poiesic/vitrine/search"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/storage/badger"
	"github.com/poiesic/vitrine/storage/postgres"
	"github.com/poiesic/vitrine/vision"
	"github.com/poiesic/vitrine/vision/siglip"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "vitrine",
		Usage: "Visual catalog ingestion and similarity search",
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
				Name:   "ingest",
				Usage:  "Ingest catalog sources listed in a run manifest",
				Action: ingestCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "Path to run manifest JSON (urls, files, limit)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Per-source product limit (overrides manifest; 0 = no limit)",
					},
				)...),
			},
			{
				Name:   "search",
				Usage:  "Find catalog products visually similar to an image",
				Action: searchCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "image",
						Usage:    "Image URL to search with",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "gender",
						Usage: "Filter by department (WOMAN or MAN)",
					},
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Filter by fabric tag",
					},
					&cli.Float64Flag{
						Name:  "max-price",
						Usage: "Filter by maximum price",
					},
				)...),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all products with a new vision model",
				Action: reembedCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N products",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				)...),
			},
			{
				Name:   "stats",
				Usage:  "Print catalog statistics",
				Action: statsCommand,
				Flags:  storeFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:  "pg-dsn",
			Usage: "PostgreSQL DSN; when set, Postgres replaces BadgerDB",
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Vision embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Vision embedding model name",
		},
		&cli.IntFlag{
			Name:  "embedding-dim",
			Usage: "Expected embedding dimension",
		},
	}
}

// loadSettings merges environment settings with command-line overrides.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if c.IsSet("db") {
		settings.DBPath = c.String("db")
	}
	if c.IsSet("pg-dsn") {
		settings.PGDSN = c.String("pg-dsn")
	}
	if c.IsSet("embedding-host") {
		settings.EmbeddingHost = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		settings.EmbeddingModel = c.String("embedding-model")
	}
	if c.IsSet("embedding-dim") {
		settings.EmbeddingDim = c.Int("embedding-dim")
	}
	return settings, nil
}

func openStore(ctx context.Context, settings *config.Settings) (storage.ProductStore, error) {
	if settings.PGDSN != "" {
		return postgres.NewStore(ctx, settings.PGDSN)
	}
	return badger.NewStore(settings.DBPath)
}

func newEmbedder(settings *config.Settings) (vision.ImageEmbedder, error) {
	return siglip.NewEmbedder(visionConfig(settings))
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	manifest, err := config.LoadManifest(c.String("manifest"))
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	if manifest.IsEmpty() {
		return fmt.Errorf("manifest names no usable sources")
	}

	limit := manifest.Limit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}

	store, err := openStore(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}

	catalog, err := vitrine.Open("", vitrine.WithStore(store), vitrine.WithVisionConfig(visionConfig(settings)))
	if err != nil {
		store.Close()
		return err
	}
	defer catalog.Close()

	tally, err := catalog.Ingest(ctx, manifest.Sources(), limit)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingestion complete: %d succeeded, %d failed\n", tally.Succeeded, tally.Failed)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}
	defer store.Close()

	embedder, err := newEmbedder(settings)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	searcher, err := search.NewSearcher(store, embedder)
	if err != nil {
		return err
	}

	var filters []search.Filter
	if c.IsSet("gender") {
		gender, err := core.ParseGender(strings.ToUpper(c.String("gender")))
		if err != nil {
			return err
		}
		filters = append(filters, search.FilterGender(gender))
	}
	if c.IsSet("tag") {
		filters = append(filters, search.FilterTag(c.String("tag")))
	}
	if c.IsSet("max-price") {
		filters = append(filters, search.FilterMaxPrice(c.Float64("max-price")))
	}

	results, err := searcher.FindSimilarToImage(ctx, c.String("image"), c.Int("max-hits"), filters...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	for i, result := range results {
		p := result.Product
		fmt.Printf("%2d. [%.3f] %s — %s %.2f %s\n   %s\n",
			i+1, result.Score, p.Title, p.Gender, p.Price, p.Currency, p.Key.ProductURL)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	store, err := openStore(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}
	defer store.Close()

	embedder, err := newEmbedder(settings)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", settings.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", settings.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	reembedder := reembed.NewReembedder(store, embedder, reembedConfig, os.Stderr)
	if _, err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}
	defer store.Close()

	count, err := store.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	fmt.Printf("Products: %d\n", count)
	return nil
}

func visionConfig(settings *config.Settings) *vision.Config {
	return vision.NewConfig(
		vision.WithHost(settings.EmbeddingHost),
		vision.WithModel(settings.EmbeddingModel),
		vision.WithDim(settings.EmbeddingDim),
		vision.WithDownloadTimeout(settings.DownloadTimeout),
		vision.WithInferenceTimeout(settings.InferenceTimeout),
	)
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
		return fmt.Errorf("invalid log level: %s", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}
