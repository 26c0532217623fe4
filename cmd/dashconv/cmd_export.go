package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tobilg/dashconv/internal/exporter"
)

func cmdExport(args []string) {
	ctx, stop := signalContext()
	defer stop()

	if err := runExport(ctx, args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ExportFlags holds the parsed flags for the export command
type ExportFlags struct {
	Output  string
	From    string
	To      string
	Zip     bool
	DryRun  bool
	Verbose bool
	Yes     bool
	DB      string
	Layout  string
}

// parseExportFlags parses command line arguments into ExportFlags
func parseExportFlags(args []string) (*ExportFlags, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	flags := &ExportFlags{}
	fs.StringVar(&flags.Output, "output", "", "Output directory (required)")
	fs.StringVar(&flags.From, "from", "", "Start date filter (YYYY-MM-DD)")
	fs.StringVar(&flags.To, "to", "", "End date filter (YYYY-MM-DD)")
	fs.BoolVar(&flags.Zip, "zip", false, "Create ZIP archive of exported files")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "Preview what would be exported")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Show detailed progress")
	fs.BoolVar(&flags.Yes, "yes", false, "Skip confirmation prompts")
	fs.StringVar(&flags.DB, "db", "", "History database (default: DASHCONV_DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Print(`Export the conversion history to Parquet

Usage: dashconv export [preserve|auto|all] --output <directory> [options]

Arguments:
  preserve  Export conversions that kept source positions
  auto      Export auto-placed conversions
  all       Export every conversion (default)

Options:
`)
		printFlags(fs)
	}

	if err := fs.Parse(reorderArgs(fs, args)); err != nil {
		return nil, err
	}

	flags.Layout = fs.Arg(0)
	return flags, nil
}

func runExport(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	flags, err := parseExportFlags(args)
	if err != nil {
		return err
	}

	if flags.Output == "" {
		return fmt.Errorf("%w: --output is required for export\nUsage: dashconv export [layout] --output <directory>", errUsage)
	}

	layout, err := exporter.ParseLayoutArg(flags.Layout)
	if err != nil {
		return err
	}

	fromDate, err := exporter.ParseDateArg(flags.From, false)
	if err != nil {
		return err
	}
	toDate, err := exporter.ParseDateArg(flags.To, true)
	if err != nil {
		return err
	}
	if fromDate != nil && toDate != nil && fromDate.After(*toDate) {
		return fmt.Errorf("--from date must be before --to date")
	}

	store, err := openHistory(flags.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	return exporter.Run(ctx, store, exporter.Options{
		OutputDir:   flags.Output,
		FromDate:    fromDate,
		ToDate:      toDate,
		Layout:      layout,
		CreateZip:   flags.Zip,
		DryRun:      flags.DryRun,
		SkipConfirm: flags.Yes,
		Verbose:     flags.Verbose,
	}, in, out)
}
