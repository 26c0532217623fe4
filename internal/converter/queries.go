package converter

import (
	"errors"
	"fmt"

	"github.com/tobilg/dashconv/internal/api"
)

// MaxQueries is the number of query keys a v2 panel supports
const MaxQueries = 5

var queryKeys = [MaxQueries]string{"A", "B", "C", "D", "E"}

// ErrOutOfRange is wrapped by errors for inputs the target format cannot hold
var ErrOutOfRange = errors.New("out of range")

// QueryLimitError reports a metrics query list longer than MaxQueries
type QueryLimitError struct {
	Count int
	Limit int
}

func (e *QueryLimitError) Error() string {
	return fmt.Sprintf("%d metrics queries exceed the limit of %d", e.Count, e.Limit)
}

func (e *QueryLimitError) Unwrap() error {
	return ErrOutOfRange
}

// IsOutOfRange checks if an error was caused by input the target format cannot hold
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// BuildQueries converts a panel's log query or metrics queries into keyed v2 queries.
// A non-empty log query wins and yields a single Logs query keyed "A".
func BuildQueries(queryString string, metricsQueries []api.MetricsQuery) ([]api.Query, error) {
	if queryString != "" {
		return []api.Query{newQuery(queryString, api.QueryTypeLogs, queryKeys[0])}, nil
	}

	if len(metricsQueries) > MaxQueries {
		return nil, &QueryLimitError{Count: len(metricsQueries), Limit: MaxQueries}
	}

	queries := make([]api.Query, 0, len(metricsQueries))
	for i, q := range metricsQueries {
		queries = append(queries, newQuery(string(q), api.QueryTypeMetrics, queryKeys[i]))
	}
	return queries, nil
}

func newQuery(queryString string, queryType api.QueryType, key string) api.Query {
	return api.Query{
		QueryString:      queryString,
		QueryType:        queryType,
		QueryKey:         key,
		MetricsQueryMode: nil,
		MetricsQueryData: nil,
	}
}
