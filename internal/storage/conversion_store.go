package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tobilg/dashconv/internal/api"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

const conversionColumns = `id, name, layout_strategy, panel_count, text_panels,
	time_series_panels, distribution_panels, fallback_panels, created_at`

// Conversion history operations

func (s *DuckDBStore) SaveConversion(ctx context.Context, req *api.SaveConversionRequest) (*api.Conversion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversions (id, name, layout_strategy, panel_count, text_panels,
			time_series_panels, distribution_panels, fallback_panels, source, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, req.Name, req.LayoutStrategy,
		req.Summary.Panels, req.Summary.TextPanels, req.Summary.TimeSeriesPanels,
		req.Summary.DistributionPanels, req.Summary.FallbackPanels,
		string(req.Source), string(req.Result), now)
	if err != nil {
		return nil, fmt.Errorf("inserting conversion: %w", err)
	}

	return &api.Conversion{
		ID:             id,
		Name:           req.Name,
		LayoutStrategy: req.LayoutStrategy,
		Summary:        req.Summary,
		CreatedAt:      now,
	}, nil
}

// GetConversions returns one page of conversions, newest first, and the total count
func (s *DuckDBStore) GetConversions(ctx context.Context, limit, offset int) ([]api.Conversion, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit, offset = clampPage(limit, offset)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting conversions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+conversionColumns+`
		FROM conversions
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	conversions := []api.Conversion{}
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning conversion: %w", err)
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating conversions: %w", err)
	}

	return conversions, total, nil
}

// GetConversion returns the record with its documents, or nil when id is unknown
func (s *DuckDBStore) GetConversion(ctx context.Context, id string) (*api.ConversionWithDocuments, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var source, result string
	var c api.Conversion
	err := s.db.QueryRowContext(ctx, `
		SELECT `+conversionColumns+`, source, result
		FROM conversions WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.LayoutStrategy,
		&c.Summary.Panels, &c.Summary.TextPanels, &c.Summary.TimeSeriesPanels,
		&c.Summary.DistributionPanels, &c.Summary.FallbackPanels, &c.CreatedAt,
		&source, &result)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversion: %w", err)
	}

	return &api.ConversionWithDocuments{
		Conversion: c,
		Source:     []byte(source),
		Result:     []byte(result),
	}, nil
}

// DeleteConversion removes a conversion and reports whether it existed
func (s *DuckDBStore) DeleteConversion(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM conversions WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting conversion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting conversion: %w", err)
	}
	return n > 0, nil
}

// GetStats aggregates panel counts over the whole history
func (s *DuckDBStore) GetStats(ctx context.Context) (*api.StatsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats api.StatsResponse
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			CAST(COALESCE(SUM(panel_count), 0) AS BIGINT),
			CAST(COALESCE(SUM(text_panels), 0) AS BIGINT),
			CAST(COALESCE(SUM(time_series_panels), 0) AS BIGINT),
			CAST(COALESCE(SUM(distribution_panels), 0) AS BIGINT),
			CAST(COALESCE(SUM(fallback_panels), 0) AS BIGINT)
		FROM conversions
	`).Scan(&stats.ConversionCount, &stats.PanelCount, &stats.TextPanels,
		&stats.TimeSeriesPanels, &stats.DistributionPanels, &stats.FallbackPanels)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	return &stats, nil
}

func scanConversion(rows *sql.Rows) (api.Conversion, error) {
	var c api.Conversion
	err := rows.Scan(&c.ID, &c.Name, &c.LayoutStrategy,
		&c.Summary.Panels, &c.Summary.TextPanels, &c.Summary.TimeSeriesPanels,
		&c.Summary.DistributionPanels, &c.Summary.FallbackPanels, &c.CreatedAt)
	return c, err
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
