// Package compiler compiles query strings into SQL.
//
// It runs the lexer, parser and generator in sequence and can keep compiled
// queries in an LRU cache. Concurrent compilations of the same input share
// one result.
package compiler

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/satishbabariya/clauseql/internal/debug"
	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/cache"
	"github.com/satishbabariya/clauseql/query/parser"
	"github.com/satishbabariya/clauseql/query/sqlgen"
)

// Compiler compiles queries for one dialect profile. It is safe for
// concurrent use.
type Compiler struct {
	profile sqlgen.Profile
	cache   *cache.LRUCache[*sqlgen.CompiledQuery]
	group   singleflight.Group
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithProfile sets the dialect profile.
func WithProfile(p sqlgen.Profile) Option {
	return func(c *Compiler) { c.profile = p }
}

// WithDialect sets the profile's dialect, keeping its other settings.
func WithDialect(d sqlgen.Dialect) Option {
	return func(c *Compiler) { c.profile.Dialect = d }
}

// WithCache enables a compiled-query cache holding up to size entries.
// A ttl of zero keeps entries until evicted.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = cache.NewLRUCache[*sqlgen.CompiledQuery](size, ttl)
		}
	}
}

// New creates a compiler. Without options it targets postgres with
// parameterized values and no cache.
func New(opts ...Option) *Compiler {
	c := &Compiler{profile: sqlgen.DefaultProfile()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Profile returns the compiler's dialect profile.
func (c *Compiler) Profile() sqlgen.Profile {
	return c.profile
}

// Compile translates a query string into SQL.
func (c *Compiler) Compile(input string) (*sqlgen.CompiledQuery, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyQuery
	}
	if c.cache == nil {
		return compile(input, c.profile)
	}

	key := cache.GenerateCacheKey(string(c.profile.ResolvedDialect()), c.profile.Key(), input)
	if out, ok := c.cache.Get(key); ok {
		debug.Debug("Compiled query", "cache_hit", true)
		return out.Clone(), nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		out, err := compile(input, c.profile)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, out, 0)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	debug.Debug("Compiled query", "cache_hit", false, "shared", shared)
	return v.(*sqlgen.CompiledQuery).Clone(), nil
}

// CompileAST generates SQL for an already-built query, bypassing the lexer
// and parser. Results are not cached.
func (c *Compiler) CompileAST(q *ast.Query) (*sqlgen.CompiledQuery, error) {
	return CompileAST(q, c.profile)
}

// Stats returns cache statistics. It is the zero value when caching is off.
func (c *Compiler) Stats() cache.Stats {
	if c.cache == nil {
		return cache.Stats{}
	}
	return c.cache.GetStats()
}

// Compile translates a query string into SQL for profile.
func Compile(input string, profile sqlgen.Profile) (*sqlgen.CompiledQuery, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyQuery
	}
	return compile(input, profile)
}

// CompileAST generates SQL for q.
func CompileAST(q *ast.Query, profile sqlgen.Profile) (*sqlgen.CompiledQuery, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil AST", ErrInvalidQuery)
	}
	return sqlgen.Generate(q, profile)
}

func compile(input string, profile sqlgen.Profile) (*sqlgen.CompiledQuery, error) {
	q, err := parser.ParseString(input)
	if err != nil {
		return nil, err
	}
	return sqlgen.Generate(q, profile)
}
