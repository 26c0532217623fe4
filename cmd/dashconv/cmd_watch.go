package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tobilg/dashconv/internal/converter"
	"github.com/tobilg/dashconv/internal/logger"
	"github.com/tobilg/dashconv/internal/migrator"
)

func cmdWatch(args []string) {
	ctx, stop := signalContext()
	defer stop()

	if err := runWatch(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// WatchFlags holds the parsed flags for the watch command
type WatchFlags struct {
	Output   string
	Layout   string
	Pretty   bool
	Debounce time.Duration
	Dir      string
}

// parseWatchFlags parses command line arguments into WatchFlags
func parseWatchFlags(args []string, defaultLayout string) (*WatchFlags, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)

	flags := &WatchFlags{}
	fs.StringVar(&flags.Output, "output", "", "Directory to write converted files to")
	fs.StringVar(&flags.Layout, "layout", defaultLayout, "Layout strategy: preserve or auto")
	fs.BoolVar(&flags.Pretty, "pretty", false, "Indent the converted JSON")
	fs.DurationVar(&flags.Debounce, "debounce", 250*time.Millisecond, "Quiet period before a changed file is converted")

	fs.Usage = func() {
		fmt.Print(`Convert every classic dashboard in a directory, then keep converting
files as they are created or changed until interrupted

Usage: dashconv watch <dir> --output DIR [options]

Options:
`)
		printFlags(fs)
	}

	if err := fs.Parse(reorderArgs(fs, args)); err != nil {
		return nil, err
	}

	flags.Dir = fs.Arg(0)
	return flags, nil
}

func runWatch(ctx context.Context, args []string) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	flags, err := parseWatchFlags(args, cfg.LayoutStrategy)
	if err != nil {
		return err
	}

	if flags.Dir == "" {
		return fmt.Errorf("%w: directory argument is required\nUsage: dashconv watch <dir> --output DIR", errUsage)
	}
	if flags.Output == "" {
		return fmt.Errorf("%w: --output is required", errUsage)
	}

	layout, err := converter.ParseLayoutStrategy(flags.Layout)
	if err != nil {
		return err
	}

	m := migrator.New(migrator.Options{
		OutputDir: flags.Output,
		Layout:    layout,
		Pretty:    flags.Pretty,
		Debounce:  flags.Debounce,
	}, nil)

	logger.Info("Watching for classic dashboards", "dir", flags.Dir, "output", flags.Output, "layout", layout)
	return m.Watch(ctx, flags.Dir)
}
