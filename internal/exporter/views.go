package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
)

// catalogViews are created in the export's DuckDB file. %[1]s is the quoted
// Parquet file name, relative to the export directory so the directory can be
// moved as a unit.
var catalogViews = []struct{ name, query string }{
	{"conversions", `SELECT * FROM read_parquet(%[1]s)`},
	{"layout_summary", `
SELECT layout_strategy,
       count(*)                         AS conversions,
       sum(panel_count)::BIGINT         AS panels,
       sum(text_panels)::BIGINT         AS text_panels,
       sum(time_series_panels)::BIGINT  AS time_series_panels,
       sum(distribution_panels)::BIGINT AS distribution_panels,
       sum(fallback_panels)::BIGINT     AS fallback_panels,
       min(created_at)                  AS first_converted,
       max(created_at)                  AS last_converted
FROM read_parquet(%[1]s)
GROUP BY layout_strategy`},
}

// createViewsDatabase writes a DuckDB file at dbPath whose views read the
// Parquet file next to it.
func (e *Exporter) createViewsDatabase(ctx context.Context, dbPath, parquetFile string) error {
	// DuckDB binds view definitions on creation, resolving relative paths
	// against the process working directory.
	return inDir(filepath.Dir(dbPath), func() error {
		name := filepath.Base(dbPath)
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			return err
		}

		db, err := sql.Open("duckdb", name)
		if err != nil {
			return fmt.Errorf("opening views database: %w", err)
		}
		defer db.Close()

		source := quoteLiteral(filepath.Base(parquetFile))
		for _, v := range catalogViews {
			stmt := "CREATE VIEW " + v.name + " AS " + fmt.Sprintf(v.query, source)
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("creating view %s: %w", v.name, err)
			}
		}
		return nil
	})
}

// inDir runs fn with dir as the working directory.
func inDir(dir string, fn func() error) error {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("changing to %s: %w", dir, err)
	}
	defer os.Chdir(prev)
	return fn()
}
