// Package exporter writes the conversion history to Parquet for analysis
// outside the service.
package exporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tobilg/dashconv/internal/storage"
)

const parquetFileName = "conversions.parquet"

// Exporter handles exporting the conversion history to Parquet files
type Exporter struct {
	store   *storage.DuckDBStore
	verbose bool
	out     io.Writer
}

// NewExporter creates a new Exporter. Progress is written to out when verbose is set.
func NewExporter(store *storage.DuckDBStore, verbose bool, out io.Writer) *Exporter {
	if out == nil {
		out = io.Discard
	}
	return &Exporter{
		store:   store,
		verbose: verbose,
		out:     out,
	}
}

// Preview returns a summary of what would be exported without actually exporting
func (e *Exporter) Preview(ctx context.Context, opts Options) (*Summary, error) {
	count, err := e.store.CountConversionsInRange(ctx, opts.filter())
	if err != nil {
		return nil, err
	}
	return &Summary{ConversionCount: count}, nil
}

// Export performs the actual export to Parquet
func (e *Exporter) Export(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	parquetPath, err := filepath.Abs(filepath.Join(opts.OutputDir, parquetFileName))
	if err != nil {
		return nil, fmt.Errorf("resolving output path: %w", err)
	}

	e.progress("Exporting conversions... ")
	count, err := e.exportToParquet(ctx, parquetPath, opts)
	if err != nil {
		return nil, fmt.Errorf("exporting conversions: %w", err)
	}
	summary.ConversionCount = count
	summary.OutputFiles = append(summary.OutputFiles, parquetPath)
	e.progress("done (%d rows)\n", count)

	e.progress("Creating views database... ")
	viewsDBPath := filepath.Join(filepath.Dir(parquetPath), opts.baseName()+".duckdb")
	if err := e.createViewsDatabase(ctx, viewsDBPath, parquetPath); err != nil {
		return nil, fmt.Errorf("creating views database: %w", err)
	}
	summary.OutputFiles = append(summary.OutputFiles, viewsDBPath)
	e.progress("done\n")

	if opts.CreateZip {
		e.progress("Creating ZIP archive... ")
		zipPath := filepath.Join(filepath.Dir(parquetPath), opts.baseName()+".zip")
		if err := CreateZipArchive(zipPath, summary.OutputFiles); err != nil {
			return nil, fmt.Errorf("creating ZIP archive: %w", err)
		}

		for _, file := range summary.OutputFiles {
			os.Remove(file)
		}
		summary.OutputFiles = []string{zipPath}
		e.progress("done\n")
	}

	for _, file := range summary.OutputFiles {
		if info, err := os.Stat(file); err == nil {
			summary.TotalSize += info.Size()
		}
	}

	return summary, nil
}

func (e *Exporter) progress(format string, args ...any) {
	if e.verbose {
		fmt.Fprintf(e.out, format, args...)
	}
}

// PrintPreview prints the export preview
func PrintPreview(w io.Writer, summary *Summary, opts Options) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Preview")
	fmt.Fprintln(w, "==============")

	if opts.FromDate != nil || opts.ToDate != nil {
		from := "start"
		to := "now"
		if opts.FromDate != nil {
			from = opts.FromDate.Format("2006-01-02")
		}
		if opts.ToDate != nil {
			to = opts.ToDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "Time range: %s to %s\n", from, to)
	} else {
		fmt.Fprintln(w, "Time range: all")
	}
	if opts.Layout != "" {
		fmt.Fprintf(w, "Layout: %s\n", opts.Layout)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Conversions to export: %d\n", summary.ConversionCount)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Output directory: %s\n", opts.OutputDir)
	fmt.Fprintln(w, "Files to create:")
	fmt.Fprintf(w, "  - %s\n", parquetFileName)
	fmt.Fprintf(w, "  - %s.duckdb\n", opts.baseName())
	if opts.CreateZip {
		fmt.Fprintf(w, "  - %s.zip (all files combined)\n", opts.baseName())
	}
}

// PrintResult prints the export result
func PrintResult(w io.Writer, summary *Summary, opts Options) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export complete!")
	fmt.Fprintf(w, "Output: %s (%d files, %s)\n", opts.OutputDir, len(summary.OutputFiles), formatSize(summary.TotalSize))
}

// Confirm prompts for confirmation on w and reads the answer from r
func Confirm(r io.Reader, w io.Writer) bool {
	fmt.Fprintln(w)
	fmt.Fprint(w, "Continue? [y/N] ")

	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Run executes the full export workflow with preview and confirmation
func Run(ctx context.Context, store *storage.DuckDBStore, opts Options, in io.Reader, out io.Writer) error {
	exporter := NewExporter(store, opts.Verbose, out)

	summary, err := exporter.Preview(ctx, opts)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if summary.IsEmpty() {
		fmt.Fprintln(out, "No conversions found to export.")
		return nil
	}

	PrintPreview(out, summary, opts)

	if opts.DryRun {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Dry run - no files created.")
		return nil
	}

	if !opts.SkipConfirm && !Confirm(in, out) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	fmt.Fprintln(out)

	result, err := exporter.Export(ctx, opts)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	PrintResult(out, result, opts)
	return nil
}

// formatSize formats a byte count as human-readable string
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
