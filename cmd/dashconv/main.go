package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tobilg/dashconv/internal/config"
	"github.com/tobilg/dashconv/internal/logger"
	"github.com/tobilg/dashconv/internal/server"
	"github.com/tobilg/dashconv/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	// Dispatch to subcommand
	switch os.Args[1] {
	case "convert":
		cmdConvert(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	case "export":
		cmdExport(os.Args[2:])
	case "delete":
		cmdDelete(os.Args[2:])
	case "serve":
		runServer()
	case "-v", "--version", "version":
		printVersion()
	case "-h", "--help", "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("dashconv %s\n", version.Version)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Date: %s\n", version.BuildDate)
}

func printHelp() {
	fmt.Print(`dashconv - convert classic dashboards into the v2 dashboard format

Usage: dashconv <command> [options]

Commands:
  convert   Convert classic dashboard files (JSON or YAML)
  watch     Convert a directory and keep converting files as they change
  export    Export the conversion history to Parquet
  delete    Delete conversions from the history
  serve     Start the conversion API server
  version   Show version information

Options:
  -h, --help       Show this help message
  -v, --version    Show version information

Use "dashconv <command> --help" for command-specific options.

Environment Variables:
  DASHCONV_CONFIG          Optional TOML configuration file
  DASHCONV_API_PORT        API server port (default: 8080)
  DASHCONV_DATABASE_PATH   DuckDB database path (default: ./data/dashconv.duckdb)
  DASHCONV_FRONTEND_URL    Frontend URL for CORS (default: http://localhost:5173)
  DASHCONV_LOG_LEVEL       Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  DASHCONV_LOG_FORMAT      Log format: text, json (default: text)
  DASHCONV_MAX_UPLOAD_MB   Largest accepted classic document in MB (default: 10)
  DASHCONV_REQUEST_TIMEOUT_SECONDS
                           Per-request deadline for the API (default: 10)
  DASHCONV_LAYOUT          Default layout strategy: preserve, auto (default: preserve)
`)
}

// loadCLIConfig loads the configuration and points logging at stderr,
// leaving stdout to converted documents
func loadCLIConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) *slog.Logger {
	// Already validated by config.Load.
	format, _ := logger.ParseFormat(cfg.LogFormat)
	return logger.Setup(os.Stderr, cfg.SlogLevel(), format)
}

// signalContext is cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := setupLogging(cfg)

	srv, err := server.New(cfg)
	if err != nil {
		log.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signalContext()
	defer stop()

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		<-ctx.Done()
		log.Info("Received shutdown signal")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during shutdown", "error", err)
		}
		os.Exit(0)
	}()

	log.Info("dashconv server starting",
		"version", version.String(),
		"database", cfg.DatabasePath,
		"api_port", cfg.APIPort,
		"layout", cfg.LayoutStrategy,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server error", "error", err)
		os.Exit(1)
	}
}
