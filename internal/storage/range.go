package storage

import (
	"context"
	"fmt"
	"time"
)

// RangeFilter selects conversions by creation time and, optionally, layout strategy
type RangeFilter struct {
	From   time.Time
	To     time.Time
	Layout string // Empty matches every strategy
}

// Where returns the SQL predicate and arguments matching the filter
func (f RangeFilter) Where() (string, []any) {
	where := "created_at >= ?::TIMESTAMP AND created_at <= ?::TIMESTAMP"
	args := []any{formatTimeForDB(f.From), formatTimeForDB(f.To)}

	if f.Layout != "" {
		where += " AND layout_strategy = ?"
		args = append(args, f.Layout)
	}
	return where, args
}

// CountConversionsInRange returns the number of conversions matching the filter
func (s *DuckDBStore) CountConversionsInRange(ctx context.Context, f RangeFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := f.Where()

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversions WHERE "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting conversions: %w", err)
	}
	return count, nil
}

// DeleteConversionsInRange deletes the conversions matching the filter
func (s *DuckDBStore) DeleteConversionsInRange(ctx context.Context, f RangeFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	where, args := f.Where()

	res, err := s.db.ExecContext(ctx, "DELETE FROM conversions WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting conversions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting conversions: %w", err)
	}
	return n, nil
}

// formatTimeForDB renders t in the TIMESTAMP literal format DuckDB parses
func formatTimeForDB(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.999999")
}
