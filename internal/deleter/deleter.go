// Package deleter prunes the conversion history by creation date.
package deleter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tobilg/dashconv/internal/storage"
)

// Options configures the delete operation
type Options struct {
	From        time.Time
	To          time.Time
	Layout      string // Optional filter by layout strategy
	SkipConfirm bool   // Skip confirmation prompt (--yes flag)
}

func (o Options) filter() storage.RangeFilter {
	return storage.RangeFilter{From: o.From, To: o.To, Layout: o.Layout}
}

// Summary contains the results of a delete operation
type Summary struct {
	ConversionCount int64
}

// IsEmpty returns true if the summary has no records to delete
func (s *Summary) IsEmpty() bool {
	return s.ConversionCount == 0
}

// Preview returns a summary of what would be deleted without actually deleting
func Preview(ctx context.Context, store *storage.DuckDBStore, opts Options) (*Summary, error) {
	count, err := store.CountConversionsInRange(ctx, opts.filter())
	if err != nil {
		return nil, err
	}
	return &Summary{ConversionCount: count}, nil
}

// Execute performs the actual deletion
func Execute(ctx context.Context, store *storage.DuckDBStore, opts Options) (*Summary, error) {
	count, err := store.DeleteConversionsInRange(ctx, opts.filter())
	if err != nil {
		return nil, err
	}
	return &Summary{ConversionCount: count}, nil
}

// PrintSummary prints the delete summary
func PrintSummary(w io.Writer, summary *Summary, opts Options) {
	fmt.Fprintln(w, "Delete Summary")
	fmt.Fprintln(w, "==============")
	fmt.Fprintf(w, "Time range: %s to %s\n", opts.From.Format("2006-01-02"), opts.To.Format("2006-01-02"))

	if opts.Layout != "" {
		fmt.Fprintf(w, "Layout: %s\n", opts.Layout)
	} else {
		fmt.Fprintln(w, "Layout: all")
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Conversions to be deleted: %d\n", summary.ConversionCount)
}

// PrintResult prints the deletion result
func PrintResult(w io.Writer, summary *Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Deletion complete: %d conversions deleted\n", summary.ConversionCount)
}

// Confirm prompts for confirmation on w and reads the answer from r
func Confirm(r io.Reader, w io.Writer) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This action cannot be undone.")
	fmt.Fprint(w, "Continue? [y/N] ")

	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Run executes the full delete workflow with preview and confirmation
func Run(ctx context.Context, store *storage.DuckDBStore, opts Options, in io.Reader, out io.Writer) error {
	summary, err := Preview(ctx, store, opts)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if summary.IsEmpty() {
		fmt.Fprintln(out, "No conversions found in the specified time range.")
		return nil
	}

	PrintSummary(out, summary, opts)

	if !opts.SkipConfirm && !Confirm(in, out) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	result, err := Execute(ctx, store, opts)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	PrintResult(out, result)
	return nil
}

// ParseDateRange parses --from/--to dates (YYYY-MM-DD). The to date covers its whole day.
func ParseDateRange(from, to string) (time.Time, time.Time, error) {
	fromTime, err := time.Parse("2006-01-02", from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date format: %v\nExpected format: YYYY-MM-DD", err)
	}

	toTime, err := time.Parse("2006-01-02", to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date format: %v\nExpected format: YYYY-MM-DD", err)
	}
	toTime = toTime.Add(24*time.Hour - time.Nanosecond)

	if fromTime.After(toTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from date must be before --to date")
	}
	return fromTime, toTime, nil
}
