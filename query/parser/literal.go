package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
)

// CoerceLiteral converts raw clause text into a literal value. Matching
// quotes are stripped, then text that parses fully as a number becomes
// int64 or float64 and anything else stays a string.
//
// The conversion is lossy: a numeric-looking string cannot be expressed,
// quoted or not.
func CoerceLiteral(raw string) any {
	text := raw
	if s, ok := unquote(raw); ok {
		text = s
	}
	if n, ok := parseNumber(text); ok {
		return n
	}
	return text
}

func parseNumber(s string) (any, bool) {
	if integerPattern.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	if decimalPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return nil, false
}

func isNumeric(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return "", false
}

func isQuoted(s string) bool {
	_, ok := unquote(s)
	return ok
}

// segment is a piece of clause text and its offset within the input.
type segment struct {
	text   string
	offset int
}

// splitTopLevel splits text on sep, ignoring separators nested inside
// parentheses or quotes. Offsets are relative to base.
func splitTopLevel(text string, sep byte, base int) []segment {
	var (
		segs  []segment
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				segs = append(segs, segment{text: text[start:i], offset: base + start})
				start = i + 1
			}
		}
	}
	return append(segs, segment{text: text[start:], offset: base + start})
}

// trim strips surrounding whitespace and shifts the offset accordingly.
func (s segment) trim() segment {
	lead := len(s.text) - len(strings.TrimLeft(s.text, " \t\r\n"))
	return segment{text: strings.TrimSpace(s.text), offset: s.offset + lead}
}

// matchingParen returns the index of the parenthesis closing the one at open,
// or -1 when it is unbalanced.
func matchingParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
