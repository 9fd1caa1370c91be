// Package main is the knowbot CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/knowbot/knowbot/internal/chat"
	"github.com/knowbot/knowbot/internal/config"
	"github.com/knowbot/knowbot/internal/embedding"
	"github.com/knowbot/knowbot/internal/extract"
	"github.com/knowbot/knowbot/internal/genai"
	"github.com/knowbot/knowbot/internal/history"
	"github.com/knowbot/knowbot/internal/ingest"
	"github.com/knowbot/knowbot/internal/server"
	"github.com/knowbot/knowbot/internal/vector"
	"github.com/knowbot/knowbot/internal/watcher"
	"github.com/knowbot/knowbot/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/knowbot/config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "version", "--version", "-v":
		fmt.Printf("knowbot version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`knowbot - document question answering over your own files

Usage:
  knowbot server [-config path] [-debug]   start the HTTP API server
  knowbot ingest [-config path] <file>...  chunk and embed files into a fresh index (smoke check)
  knowbot version                          print version
  knowbot help                             show this help`)
}

// loadConfig loads config from path, preferring a config.yaml in the current
// directory when the default path is used (for development).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
	)

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		logger.Warn("embedder unavailable, using mock embeddings", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}
	defer embedder.Close()

	index, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		logger.Fatal("failed to create vector index", zap.Error(err))
	}
	defer index.Close()

	var hist history.Store
	if cfg.Storage.HistoryPath != "" {
		hist, err = history.NewSQLiteStore(cfg.Storage.HistoryPath)
		if err != nil {
			logger.Fatal("failed to open history store", zap.Error(err))
		}
	} else {
		hist = history.NewMemoryStore()
	}
	defer hist.Close()

	generator, err := genai.New(&cfg.Generation)
	if err != nil {
		logger.Fatal("failed to create generator", zap.Error(err))
	}

	engine := chat.NewEngine(embedder, index, hist, generator, &cfg.Chat, chat.WithLogger(logger))

	ingestOpts := []ingest.IngestorOption{}
	if debugMode {
		ingestOpts = append(ingestOpts, ingest.WithLogger(logger))
	}
	ingestor := ingest.NewIngestor(extract.NewExtractor(), embedder, index, cfg.Chat.ChunkSize, ingestOpts...)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watch := watcher.NewWatcher(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			func(path string) {
				if _, err := ingestor.IngestFile(context.Background(), path); err != nil {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("failed to start watcher", zap.Error(err))
		}
		watch.SyncExisting()
	}

	srv := server.NewServer(engine, ingestor, index, &cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}
}

// runIngest builds a throwaway index and reports how many passages each file
// would produce. Useful for checking extraction and chunking without a server.
func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])
	files := fs.Args()
	if len(files) == 0 {
		fmt.Println("Usage: knowbot ingest [-config path] <file>...")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		// No config is fine for a local smoke check; use defaults.
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}
	defer embedder.Close()

	index, err := vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		fmt.Printf("Failed to create index: %v\n", err)
		os.Exit(1)
	}
	defer index.Close()

	ingestor := ingest.NewIngestor(extract.NewExtractor(), embedder, index, cfg.Chat.ChunkSize)
	ctx := context.Background()
	for _, path := range files {
		n, err := ingestor.IngestFile(ctx, path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d passages\n", path, n)
	}
	fmt.Printf("index size: %d\n", index.Size())
}
