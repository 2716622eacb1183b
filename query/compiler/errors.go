package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/clauseql/query/lexer"
	"github.com/satishbabariya/clauseql/query/parser"
)

var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrEmptyQuery   = errors.New("empty query")
)

// Position returns the input offset carried by a lex or parse error.
func Position(err error) (int, bool) {
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return lexErr.Position, true
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Position, true
	}
	return 0, false
}

// Diagnostic renders err against the input with a caret under the failing
// offset. Errors without a position are returned as plain text.
//
//	from:users on:a=b
//	           ^
//	parse error at position 11: ON clause without a preceding JOIN
func Diagnostic(input string, err error) string {
	if err == nil {
		return ""
	}
	pos, ok := Position(err)
	if !ok {
		return err.Error()
	}
	if pos > len(input) {
		pos = len(input)
	}

	// Keep the caret aligned when the line holds tabs.
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return '\t'
		}
		return ' '
	}, input[:pos])
	return fmt.Sprintf("%s\n%s^\n%s", input, pad, err.Error())
}
