package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tobilg/dashconv/internal/deleter"
	"github.com/tobilg/dashconv/internal/exporter"
)

func cmdDelete(args []string) {
	ctx, stop := signalContext()
	defer stop()

	if err := runDelete(ctx, args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// DeleteFlags holds the parsed flags for the delete command
type DeleteFlags struct {
	From   string
	To     string
	Yes    bool
	DB     string
	Layout string
}

// parseDeleteFlags parses command line arguments into DeleteFlags
func parseDeleteFlags(args []string) (*DeleteFlags, error) {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)

	flags := &DeleteFlags{}
	fs.StringVar(&flags.From, "from", "", "Start date (YYYY-MM-DD, required)")
	fs.StringVar(&flags.To, "to", "", "End date (YYYY-MM-DD, required)")
	fs.BoolVar(&flags.Yes, "yes", false, "Skip confirmation prompts")
	fs.StringVar(&flags.DB, "db", "", "History database (default: DASHCONV_DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Print(`Delete conversions from the history

Usage: dashconv delete [preserve|auto|all] --from DATE --to DATE [options]

Arguments:
  preserve  Delete only conversions that kept source positions
  auto      Delete only auto-placed conversions
  all       Delete every conversion in the range (default)

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

func runDelete(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	flags, err := parseDeleteFlags(args)
	if err != nil {
		return err
	}

	if flags.From == "" || flags.To == "" {
		return fmt.Errorf("%w: --from and --to are required for delete operations\nUsage: dashconv delete [layout] --from YYYY-MM-DD --to YYYY-MM-DD", errUsage)
	}

	layout, err := exporter.ParseLayoutArg(flags.Layout)
	if err != nil {
		return err
	}

	from, to, err := deleter.ParseDateRange(flags.From, flags.To)
	if err != nil {
		return err
	}

	store, err := openHistory(flags.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	return deleter.Run(ctx, store, deleter.Options{
		From:        from,
		To:          to,
		Layout:      layout,
		SkipConfirm: flags.Yes,
	}, in, out)
}
