package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/docfield/docfield/internal/config"
	"github.com/docfield/docfield/internal/entity"
	"github.com/docfield/docfield/internal/extract"
	"github.com/docfield/docfield/internal/field"
	"github.com/docfield/docfield/internal/mcpserver"
	"github.com/docfield/docfield/internal/report"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
)

// setupLogging builds the process logger. Logs always go to stderr: in
// stdio mode stdout carries the MCP protocol stream, and in scan mode it
// carries the results table.
func setupLogging(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	cfg.Version = version

	logger := setupLogging(cfg)
	logger.Debug("configuration loaded", "config", cfg.String(), "build_time", buildTime)

	// The recognizer model is process-wide state: loaded once before the
	// first document, read-only afterwards, released at shutdown.
	if err := entity.Load(); err != nil {
		logger.Error("failed to load entity recognizer", "error", err)
		os.Exit(1)
	}
	defer entity.Release()

	recognizer, err := entity.Shared()
	if err != nil {
		logger.Error("entity recognizer unavailable", "error", err)
		os.Exit(1)
	}

	service, err := extract.NewService(recognizer, extract.Options{
		MaxFileSize: cfg.MaxFileSize,
		Region:      cfg.Region,
		YearPivot:   cfg.YearPivot,
		SearchTerm:  cfg.SearchTerm,
		Workers:     cfg.Workers,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create extraction service", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.IsStdioMode() {
		runStdio(ctx, cfg, service, logger)
		return
	}

	if err := runScan(ctx, cfg, service, logger); err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}
}

// runStdio serves the extraction pipeline over MCP stdio.
func runStdio(ctx context.Context, cfg *config.Config, service *extract.Service, logger *slog.Logger) {
	srv, err := mcpserver.NewServer(cfg, service, logger)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// runScan processes a one-shot batch: positional file arguments if given,
// otherwise every *.pdf in the configured directory.
func runScan(ctx context.Context, cfg *config.Config, service *extract.Service, logger *slog.Logger) error {
	uploads, err := collectUploads(cfg, logger)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		return fmt.Errorf("no PDF files to process in %s", cfg.PDFDirectory)
	}

	results := service.ProcessBatch(ctx, uploads)

	if cfg.CSVPath != "" {
		if err := writeCSVFile(cfg.CSVPath, results); err != nil {
			return err
		}
		logger.Info("CSV written", "path", cfg.CSVPath, "documents", results.Len())
	}

	printResults(results)
	return nil
}

func collectUploads(cfg *config.Config, logger *slog.Logger) ([]field.Upload, error) {
	paths := pflag.Args()
	if len(paths) == 0 {
		matches, err := filepath.Glob(filepath.Join(cfg.PDFDirectory, "*.pdf"))
		if err != nil {
			return nil, fmt.Errorf("cannot scan directory %s: %w", cfg.PDFDirectory, err)
		}
		sort.Strings(matches)
		paths = matches
	}

	uploads := make([]field.Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		uploads = append(uploads, field.Upload{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}
	return uploads, nil
}

func writeCSVFile(path string, results field.ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, results); err != nil {
		return fmt.Errorf("cannot write CSV: %w", err)
	}
	return nil
}

func printResults(results field.ResultSet) {
	for _, rec := range results.Records {
		fmt.Printf("%s\n", rec.DocumentID)
		if rec.Failed() {
			fmt.Printf("  error: %s\n", rec.Err)
			continue
		}
		if rec.FieldCount() == 0 {
			fmt.Println("  no validated fields")
			continue
		}
		for _, t := range field.Types {
			for _, v := range rec.Values(t) {
				fmt.Printf("  %-6s %s\n", t, v)
			}
		}
	}

	summary := report.Summarize(results)
	fmt.Printf("\n%d field(s) across %d document(s), %d failed\n",
		summary.TotalFields, summary.Documents, summary.FailedDocuments)
}
