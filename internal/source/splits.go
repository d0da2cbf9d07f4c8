package source

import (
	"fmt"
	"strings"
)

const (
	countColumn       = "total"
	paramSchemaSample = "schemaSample"
	schemaSampleSize  = int64(100)
	sampleQueryFormat = "CALL { %s } RETURN * LIMIT $" + paramSchemaSample
	paramSplitSkip    = "splitSkip"
	paramSplitLimit   = "splitLimit"
	countQueryFormat  = "CALL { %s } RETURN count(*) AS " + countColumn
	splitQueryFormat  = "%s ORDER BY %s SKIP $" + paramSplitSkip + " LIMIT $" + paramSplitLimit
)

// Split is one partition of the input query's result, read by one task.
type Split struct {
	Index  int
	Query  string
	Params map[string]any
	// Skip and Limit bound the ordered range; both are zero for an unbounded
	// single split.
	Skip  int64
	Limit int64
}

// CountQuery wraps the input query to count its rows.
func CountQuery(input string) string {
	return fmt.Sprintf(countQueryFormat, trimStatement(input))
}

// SampleQuery wraps the input query to fetch the first rows used for schema
// inference.
func SampleQuery(input string) string {
	return fmt.Sprintf(sampleQueryFormat, trimStatement(input))
}

// RangeQuery orders the input query by orderBy and selects one range of it
// through the splitSkip and splitLimit parameters.
func RangeQuery(input, orderBy string) string {
	return fmt.Sprintf(splitQueryFormat, trimStatement(input), orderBy)
}

// PlanRanges divides total rows into at most n contiguous ranges of the
// ordered query. Earlier ranges take the remainder; empty ranges are dropped.
func PlanRanges(input, orderBy string, total int64, n int) []Split {
	if n <= 0 || total <= 0 {
		return nil
	}
	query := RangeQuery(input, orderBy)
	base, rem := total/int64(n), total%int64(n)

	var splits []Split
	var skip int64
	for i := 0; i < n; i++ {
		limit := base
		if int64(i) < rem {
			limit++
		}
		if limit == 0 {
			break
		}
		splits = append(splits, Split{
			Index:  len(splits),
			Query:  query,
			Params: map[string]any{paramSplitSkip: skip, paramSplitLimit: limit},
			Skip:   skip,
			Limit:  limit,
		})
		skip += limit
	}
	return splits
}

func trimStatement(query string) string {
	return strings.TrimRight(strings.TrimSpace(query), "; \t\n")
}
