package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/tobilg/dashconv/internal/storage"
)

// Options configures the export operation
type Options struct {
	OutputDir   string     // Output directory path
	FromDate    *time.Time // Optional start date filter
	ToDate      *time.Time // Optional end date filter
	Layout      string     // Optional layout strategy filter
	CreateZip   bool       // Create ZIP archive of output
	DryRun      bool       // Preview without exporting
	SkipConfirm bool       // Skip confirmation prompt
	Verbose     bool       // Show detailed progress
}

// DateRangeString returns a formatted string for the date range
// Returns "all" if no date filter is set
func (o *Options) DateRangeString() string {
	if o.FromDate == nil && o.ToDate == nil {
		return "all"
	}
	if o.FromDate != nil && o.ToDate != nil {
		return fmt.Sprintf("%s-%s", o.FromDate.Format("2006-01-02"), o.ToDate.Format("2006-01-02"))
	}
	if o.FromDate != nil {
		return fmt.Sprintf("%s-now", o.FromDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("start-%s", o.ToDate.Format("2006-01-02"))
}

// filter turns the optional dates into a storage range, using a very wide
// range for whichever end is unset
func (o *Options) filter() storage.RangeFilter {
	f := storage.RangeFilter{
		From:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
		Layout: o.Layout,
	}
	if o.FromDate != nil {
		f.From = *o.FromDate
	}
	if o.ToDate != nil {
		f.To = *o.ToDate
	}
	return f
}

// baseName is the file name stem shared by the views database and ZIP archive
func (o *Options) baseName() string {
	layout := o.Layout
	if layout == "" {
		layout = "all"
	}
	return fmt.Sprintf("dashconv-export-%s-%s", layout, o.DateRangeString())
}

// Summary contains export statistics
type Summary struct {
	ConversionCount int64    // Number of conversions exported
	OutputFiles     []string // List of output file paths
	TotalSize       int64    // Total size of exported files in bytes
}

// IsEmpty returns true if there's nothing to export
func (s *Summary) IsEmpty() bool {
	return s.ConversionCount == 0
}

// ParseLayoutArg maps the CLI layout argument to a filter value; "all" matches every strategy
func ParseLayoutArg(s string) (string, error) {
	switch strings.ToLower(s) {
	case "preserve", "auto":
		return strings.ToLower(s), nil
	case "all", "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid layout: %s (valid: preserve, auto, all)", s)
	}
}

// ParseDateArg parses an optional YYYY-MM-DD date. With endOfDay set the
// result is the last instant of that day.
func ParseDateArg(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
