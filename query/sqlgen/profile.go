package sqlgen

import (
	"fmt"
	"strings"
)

// Dialect names a target SQL engine.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
	Generic  Dialect = "generic"
)

// Dialects lists the supported dialects.
var Dialects = []Dialect{Postgres, MySQL, SQLite, Generic}

// ParseDialect resolves a dialect name. Common aliases are accepted.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "generic":
		return Generic, nil
	default:
		return "", fmt.Errorf("unknown dialect %q", s)
	}
}

// PlaceholderStyle selects how parameters are written into SQL text.
type PlaceholderStyle int

const (
	// PlaceholderAuto uses the dialect's own style.
	PlaceholderAuto PlaceholderStyle = iota
	// PlaceholderPostgres writes $1, $2, ...
	PlaceholderPostgres
	// PlaceholderMySQL writes ?.
	PlaceholderMySQL
	// PlaceholderSQLite writes ?.
	PlaceholderSQLite
)

func (s PlaceholderStyle) String() string {
	switch s {
	case PlaceholderPostgres:
		return "postgres"
	case PlaceholderMySQL:
		return "mysql"
	case PlaceholderSQLite:
		return "sqlite"
	default:
		return "auto"
	}
}

// ParsePlaceholderStyle resolves a placeholder style name.
func ParsePlaceholderStyle(s string) (PlaceholderStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PlaceholderAuto, nil
	case "postgres", "postgresql", "pg":
		return PlaceholderPostgres, nil
	case "mysql":
		return PlaceholderMySQL, nil
	case "sqlite", "sqlite3":
		return PlaceholderSQLite, nil
	default:
		return PlaceholderAuto, fmt.Errorf("unknown placeholder style %q", s)
	}
}

// KeywordCase controls the case of emitted SQL keywords.
type KeywordCase int

const (
	KeywordUpper KeywordCase = iota
	KeywordLower
)

func (c KeywordCase) String() string {
	if c == KeywordLower {
		return "lower"
	}
	return "upper"
}

// ParseKeywordCase resolves "upper" or "lower".
func ParseKeywordCase(s string) (KeywordCase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upper":
		return KeywordUpper, nil
	case "lower":
		return KeywordLower, nil
	default:
		return KeywordUpper, fmt.Errorf("unknown keyword case %q", s)
	}
}

// Profile configures one compilation. The zero value targets postgres with
// parameterized values, dialect placeholders and upper-case keywords.
type Profile struct {
	Dialect Dialect
	// Inline renders values as SQL literals instead of placeholders.
	Inline           bool
	Placeholder      PlaceholderStyle
	Pretty           bool
	QuoteIdentifiers bool
	KeywordCase      KeywordCase
	TablePrefix      string
}

// DefaultProfile returns the postgres profile with parameterization enabled.
func DefaultProfile() Profile {
	return Profile{Dialect: Postgres}
}

// ProfileFor returns the default profile for a dialect.
func ProfileFor(d Dialect) Profile {
	return Profile{Dialect: d}
}

// Parameterized reports whether values are emitted as placeholders.
func (p Profile) Parameterized() bool {
	return !p.Inline
}

// Key identifies the profile for caching. Profiles that generate the same
// SQL for every query share a key.
func (p Profile) Key() string {
	return fmt.Sprintf("%s|inline=%t|ph=%s|pretty=%t|quote=%t|kw=%s|prefix=%s",
		p.ResolvedDialect(), p.Inline, p.Placeholder, p.Pretty, p.QuoteIdentifiers, p.KeywordCase, p.TablePrefix)
}

// ResolvedDialect returns the dialect, treating the zero value as postgres.
func (p Profile) ResolvedDialect() Dialect {
	if p.Dialect == "" {
		return Postgres
	}
	return p.Dialect
}

// Validate reports an unknown dialect.
func (p Profile) Validate() error {
	if _, ok := dialects[p.ResolvedDialect()]; !ok {
		return fmt.Errorf("unknown dialect %q", p.Dialect)
	}
	return nil
}
