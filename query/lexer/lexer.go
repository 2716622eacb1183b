// Package lexer splits a query string into clause tokens.
package lexer

import (
	"errors"
	"fmt"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/clauseql/internal/debug"
)

// Token is one `prefix:value` clause of the input.
type Token struct {
	Kind     ClauseKind
	Value    string
	Position int
	Raw      string
}

// String returns the token in `KIND(value)@pos` form.
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Value, t.Position)
}

// ValueOffset returns the input offset of the first byte of Value.
func (t Token) ValueOffset() int {
	return t.Position + len(t.Raw) - len(t.Value)
}

// LexError reports a malformed clause.
type LexError struct {
	Position int
	Message  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at position %d: %s", e.Position, e.Message)
}

// SegmentLexer splits input on unquoted whitespace. A quoted run extends to
// its closing quote, or to the end of input when the quote is unterminated.
var SegmentLexer = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Segment", Pattern: `(?:'[^']*'?|"[^"]*"?|[^\s'"])+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var segmentType = SegmentLexer.Symbols()["Segment"]

// Tokenize converts the input string into a slice of clause tokens.
func Tokenize(input string) ([]Token, error) {
	debug.Debug("Starting tokenization", "input_length", len(input))

	lex, err := SegmentLexer.LexString("", input)
	if err != nil {
		return nil, &LexError{Message: err.Error()}
	}

	var tokens []Token
	for {
		seg, err := lex.Next()
		if err != nil {
			return nil, &LexError{Position: errorOffset(err), Message: err.Error()}
		}
		if seg.EOF() {
			break
		}
		if seg.Type != segmentType {
			continue
		}
		tok, err := classify(seg.Value, seg.Pos.Offset)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	debug.Debug("Tokenization complete", "tokens", len(tokens))
	return tokens, nil
}

// classify splits a segment on its first colon and resolves the prefix.
func classify(raw string, pos int) (Token, error) {
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return Token{}, &LexError{Position: pos, Message: fmt.Sprintf("clause %q is missing a ':' separator", raw)}
	}
	prefix, value := raw[:idx], raw[idx+1:]
	if value == "" {
		return Token{}, &LexError{Position: pos, Message: fmt.Sprintf("clause %q has an empty value", raw)}
	}
	kind, ok := LookupPrefix(prefix)
	if !ok {
		return Token{}, &LexError{Position: pos, Message: fmt.Sprintf("unrecognized clause prefix %q", prefix)}
	}
	return Token{Kind: kind, Value: value, Position: pos, Raw: raw}, nil
}

func errorOffset(err error) int {
	var perr interface{ Position() plexer.Position }
	if errors.As(err, &perr) {
		return perr.Position().Offset
	}
	return 0
}
