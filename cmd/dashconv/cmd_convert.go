package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tobilg/dashconv/internal/converter"
	"github.com/tobilg/dashconv/internal/logger"
	"github.com/tobilg/dashconv/internal/migrator"
)

var errUsage = errors.New("usage error")

func cmdConvert(args []string) {
	ctx, stop := signalContext()
	defer stop()

	if err := runConvert(ctx, args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ConvertFlags holds the parsed flags for the convert command
type ConvertFlags struct {
	Output      string
	Layout      string
	Pretty      bool
	Concurrency int
	Files       []string
}

// parseConvertFlags parses command line arguments into ConvertFlags
func parseConvertFlags(args []string, defaultLayout string) (*ConvertFlags, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	flags := &ConvertFlags{}
	fs.StringVar(&flags.Output, "output", "", "Directory to write converted files to (default: stdout for a single file)")
	fs.StringVar(&flags.Layout, "layout", defaultLayout, "Layout strategy: preserve or auto")
	fs.BoolVar(&flags.Pretty, "pretty", false, "Indent the converted JSON")
	fs.IntVar(&flags.Concurrency, "concurrency", 0, "Files converted in parallel (0 uses all CPUs)")

	fs.Usage = func() {
		fmt.Print(`Convert classic dashboard files into v2 dashboards

Usage: dashconv convert <file>... [options]

Arguments:
  file   Classic dashboard export (.json, .yaml or .yml)

A single file without --output is written to stdout. Several files
require --output and are converted in parallel.

Options:
`)
		printFlags(fs)
	}

	if err := fs.Parse(reorderArgs(fs, args)); err != nil {
		return nil, err
	}

	flags.Files = fs.Args()
	return flags, nil
}

func runConvert(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	flags, err := parseConvertFlags(args, cfg.LayoutStrategy)
	if err != nil {
		return err
	}

	if len(flags.Files) == 0 {
		return fmt.Errorf("%w: at least one file is required\nUsage: dashconv convert <file>... [--output DIR]", errUsage)
	}
	if len(flags.Files) > 1 && flags.Output == "" {
		return fmt.Errorf("%w: --output is required when converting more than one file", errUsage)
	}

	layout, err := converter.ParseLayoutStrategy(flags.Layout)
	if err != nil {
		return err
	}

	m := migrator.New(migrator.Options{
		OutputDir:   flags.Output,
		Layout:      layout,
		Pretty:      flags.Pretty,
		Concurrency: flags.Concurrency,
	}, nil)

	if flags.Output == "" {
		_, err := m.ConvertTo(ctx, flags.Files[0], stdout)
		return err
	}

	results, err := m.ConvertFiles(ctx, flags.Files)
	if err != nil {
		return err
	}
	logger.Info("Conversion finished", "files", len(results), "output", flags.Output)
	return nil
}
