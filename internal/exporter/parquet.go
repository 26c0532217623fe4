package exporter

import (
	"context"
	"fmt"
	"strings"
)

// exportToParquet exports the matching conversions to Parquet using DuckDB COPY TO
func (e *Exporter) exportToParquet(ctx context.Context, outputPath string, opts Options) (int64, error) {
	f := opts.filter()
	where, args := f.Where()

	query := fmt.Sprintf("COPY (SELECT * FROM conversions WHERE %s ORDER BY created_at) TO %s (FORMAT PARQUET, COMPRESSION 'ZSTD')",
		where, quoteLiteral(outputPath))

	if _, err := e.store.DB().ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("executing COPY TO: %w", err)
	}

	// Count the rows in the output file to report
	var count int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM read_parquet(%s)", quoteLiteral(outputPath))
	if err := e.store.DB().QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		// The export itself succeeded
		return 0, nil
	}

	return count, nil
}

// quoteLiteral quotes s as a SQL string literal
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
