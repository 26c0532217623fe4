// Package migrator converts classic dashboard files on disk, either as a
// one-off batch or continuously while watching a directory.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/tobilg/dashconv/internal/api"
	"github.com/tobilg/dashconv/internal/converter"
	"github.com/tobilg/dashconv/internal/document"
	"github.com/tobilg/dashconv/internal/logger"
	"github.com/tobilg/dashconv/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// ErrNoOutputDir is returned when a file conversion has nowhere to write
var ErrNoOutputDir = errors.New("output directory is required")

// Options configures a Migrator
type Options struct {
	OutputDir   string
	Layout      converter.LayoutStrategy
	Pretty      bool
	Concurrency int           // Parallel conversions in a batch; defaults to GOMAXPROCS
	Debounce    time.Duration // Quiet period before a watched file is converted
}

// Result describes one converted file
type Result struct {
	Input   string
	Output  string
	Summary api.ConversionSummary
	Skipped bool // Content unchanged since the last conversion
}

// Migrator converts classic dashboard files into v2 files
type Migrator struct {
	conv    *converter.Converter
	opts    Options
	metrics *metrics.Metrics
	state   *stateTracker
}

// New creates a Migrator. m may be nil when metrics are not collected.
func New(opts Options, m *metrics.Metrics) *Migrator {
	copts := converter.DefaultOptions()
	if opts.Layout != "" {
		copts.Layout.Strategy = opts.Layout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 250 * time.Millisecond
	}

	return &Migrator{
		conv:    converter.New(copts),
		opts:    opts,
		metrics: m,
		state:   newStateTracker(),
	}
}

// ConvertTo converts the classic dashboard at path and writes the v2 document to w
func (m *Migrator) ConvertTo(ctx context.Context, path string, w io.Writer) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Input: path}, err
	}

	_, dash, summary, err := m.convert(path)
	if err != nil {
		return Result{Input: path}, err
	}
	if err := document.Write(w, dash, m.opts.Pretty); err != nil {
		return Result{Input: path}, fmt.Errorf("%s: %w", path, err)
	}
	return Result{Input: path, Summary: summary}, nil
}

// ConvertFile converts the classic dashboard at path into OutputDir
func (m *Migrator) ConvertFile(ctx context.Context, path string) (Result, error) {
	return m.convertFile(ctx, path, false)
}

// ConvertFiles converts every path in parallel. All files are attempted; the
// returned error joins the per-file failures.
func (m *Migrator) ConvertFiles(ctx context.Context, paths []string) ([]Result, error) {
	if m.opts.OutputDir == "" {
		return nil, ErrNoOutputDir
	}
	if err := checkCollisions(m.opts.OutputDir, paths); err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(m.opts.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			results[i], errs[i] = m.ConvertFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (m *Migrator) convertFile(ctx context.Context, path string, onlyChanged bool) (Result, error) {
	res := Result{Input: path}
	if m.opts.OutputDir == "" {
		return res, ErrNoOutputDir
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Output = document.OutputPath(m.opts.OutputDir, path)

	if onlyChanged {
		data, err := os.ReadFile(path)
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", path, err)
		}
		if m.state.status(path, data) == StatusCurrent {
			res.Skipped = true
			return res, nil
		}
	}

	data, dash, summary, err := m.convert(path)
	if err != nil {
		return res, err
	}
	res.Summary = summary

	if err := document.WriteFile(res.Output, dash, m.opts.Pretty); err != nil {
		return res, err
	}
	m.state.record(path, data)

	logger.WithFile(path).Info("Converted dashboard",
		"output", res.Output,
		"panels", summary.Panels,
		"fallback_panels", summary.FallbackPanels,
	)
	return res, nil
}

// convert reads and converts one file, recording metrics for the attempt
func (m *Migrator) convert(path string) ([]byte, *api.DashboardV2, api.ConversionSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, api.ConversionSummary{}, fmt.Errorf("reading %s: %w", path, err)
	}

	src, err := document.Decode(data, document.FormatFromPath(path))
	if err != nil {
		return nil, nil, api.ConversionSummary{}, fmt.Errorf("%s: %w", path, err)
	}

	start := time.Now()
	summary := converter.Summarize(src)
	dash, err := m.conv.Convert(src)
	m.metrics.ObserveConversion(summary, time.Since(start), err)
	if err != nil {
		return nil, nil, summary, fmt.Errorf("%s: %w", path, err)
	}
	return data, dash, summary, nil
}

// checkCollisions rejects batches where two inputs share an output file
func checkCollisions(dir string, paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		out := document.OutputPath(dir, p)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, p, out)
		}
		seen[out] = p
	}
	return nil
}

// isConvertible reports whether a directory entry should be picked up by watch mode
func isConvertible(path string) bool {
	return document.IsSupported(path) && !strings.HasSuffix(strings.ToLower(path), ".v2.json")
}
