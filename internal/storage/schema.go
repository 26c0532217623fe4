package storage

// migration is one forward-only schema step. Versions are applied in order and
// recorded in schema_migrations so reopening a database is a no-op.
type migration struct {
	version    int
	name       string
	statements []string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     INTEGER PRIMARY KEY,
    name        VARCHAR NOT NULL,
    applied_at  TIMESTAMP NOT NULL DEFAULT CAST(current_timestamp AS TIMESTAMP)
);
`

var migrations = []migration{
	{
		version: 1,
		name:    "create conversions",
		statements: []string{`
CREATE TABLE IF NOT EXISTS conversions (
    id                      VARCHAR PRIMARY KEY,
    name                    VARCHAR NOT NULL,
    layout_strategy         VARCHAR NOT NULL,
    panel_count             INTEGER NOT NULL DEFAULT 0,
    text_panels             INTEGER NOT NULL DEFAULT 0,
    time_series_panels      INTEGER NOT NULL DEFAULT 0,
    distribution_panels     INTEGER NOT NULL DEFAULT 0,
    fallback_panels         INTEGER NOT NULL DEFAULT 0,
    source                  VARCHAR NOT NULL,
    result                  VARCHAR NOT NULL,
    created_at              TIMESTAMP NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
		},
	},
	{
		version: 2,
		name:    "index name and layout",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_conversions_name ON conversions(name)`,
			`CREATE INDEX IF NOT EXISTS idx_conversions_layout ON conversions(layout_strategy)`,
		},
	},
}

// latestSchemaVersion is the version a freshly opened store ends up at.
func latestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}
