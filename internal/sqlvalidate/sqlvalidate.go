// Package sqlvalidate checks that expression text accepted into a
// declarative document (column defaults, check expressions, view queries,
// function bodies) is valid PostgreSQL, using the real grammar rather than
// a hand-rolled one.
package sqlvalidate

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Expression validates a standalone SQL expression (a column default or a
// check constraint body) by wrapping it in a throwaway SELECT and parsing
// that statement.
func Expression(expr string) error {
	_, err := pg_query.Parse("SELECT " + expr)
	if err != nil {
		return fmt.Errorf("invalid SQL expression %q: %w", expr, err)
	}
	return nil
}

// Query validates a full statement (a view's defining query or a function
// body written in the SQL language).
func Query(sql string) error {
	_, err := pg_query.Parse(sql)
	if err != nil {
		return fmt.Errorf("invalid SQL: %w", err)
	}
	return nil
}
