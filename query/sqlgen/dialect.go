package sqlgen

import (
	"fmt"
	"strings"
)

// dialect holds the behaviour that differs between SQL engines.
type dialect interface {
	// placeholder returns the parameter marker for the 1-based index.
	placeholder(index int) string
	// quote wraps an identifier, doubling embedded quote characters.
	quote(name string) string
	// offsetOnlyLimit is the LIMIT value written when OFFSET is given alone,
	// or "" when the engine accepts a bare OFFSET.
	offsetOnlyLimit() string
}

var dialects = map[Dialect]dialect{
	Postgres: postgresDialect{},
	MySQL:    mysqlDialect{},
	SQLite:   sqliteDialect{},
	Generic:  genericDialect{},
}

// postgresDialect generates PostgreSQL SQL
type postgresDialect struct{}

func (postgresDialect) placeholder(index int) string { return fmt.Sprintf("$%d", index) }
func (postgresDialect) quote(name string) string     { return quoteWith(name, `"`) }
func (postgresDialect) offsetOnlyLimit() string      { return "" }

// mysqlDialect generates MySQL SQL
type mysqlDialect struct{}

func (mysqlDialect) placeholder(int) string   { return "?" }
func (mysqlDialect) quote(name string) string { return quoteWith(name, "`") }
func (mysqlDialect) offsetOnlyLimit() string  { return "18446744073709551615" }

// sqliteDialect generates SQLite SQL
type sqliteDialect struct{}

func (sqliteDialect) placeholder(int) string   { return "?" }
func (sqliteDialect) quote(name string) string { return quoteWith(name, `"`) }
func (sqliteDialect) offsetOnlyLimit() string  { return "-1" }

// genericDialect emits unquoted identifiers and ? placeholders.
type genericDialect struct{}

func (genericDialect) placeholder(int) string   { return "?" }
func (genericDialect) quote(name string) string { return name }
func (genericDialect) offsetOnlyLimit() string  { return "" }

func quoteWith(name, q string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}
