package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/satishbabariya/clauseql/query/ast"
)

// operandMode decides how the right side of a comparison is read.
type operandMode int

const (
	// literalOperands coerces every right-hand side into a literal (WHERE, HAVING).
	literalOperands operandMode = iota
	// columnOperands reads unquoted, non-numeric right-hand sides as column
	// references (JOIN ... ON).
	columnOperands
)

var membershipPattern = regexp.MustCompile(`(?is)^(.+)\.(in|nin)\((.*)\)$`)

// ParseCondition parses the text of a WHERE or HAVING clause.
//
// Top-level commas are resolved before pipes, so `a=1,b=2|c=3` yields
// And[a=1, Or[b=2, c=3]].
func ParseCondition(text string) (ast.Condition, error) {
	return conditionParser{mode: literalOperands}.parse(segment{text: text})
}

type conditionParser struct {
	mode operandMode
}

// parse applies the comma (AND) split, then falls back to the pipe split.
func (c conditionParser) parse(s segment) (ast.Condition, error) {
	parts := splitTopLevel(s.text, ',', s.offset)
	if len(parts) >= 2 && allConditionStarts(parts) {
		children := make([]ast.Condition, 0, len(parts))
		for _, part := range parts {
			child, err := c.parseOr(part)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return ast.And{Children: children}, nil
	}
	return c.parseOr(s)
}

func (c conditionParser) parseOr(s segment) (ast.Condition, error) {
	parts := splitTopLevel(s.text, '|', s.offset)
	if len(parts) < 2 {
		return c.parseAtom(s)
	}
	children := make([]ast.Condition, 0, len(parts))
	for _, part := range parts {
		child, err := c.parseAtom(part)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return ast.Or{Children: children}, nil
}

func (c conditionParser) parseAtom(s segment) (ast.Condition, error) {
	s = s.trim()
	text := s.text
	if text == "" {
		return nil, errorf(s.offset, "empty condition")
	}

	if strings.HasPrefix(text, "!(") && matchingParen(text, 1) == len(text)-1 {
		child, err := c.parse(segment{text: text[2 : len(text)-1], offset: s.offset + 2})
		if err != nil {
			return nil, err
		}
		return ast.Not{Child: child}, nil
	}

	if text[0] == '(' && matchingParen(text, 0) == len(text)-1 {
		return c.parse(segment{text: text[1 : len(text)-1], offset: s.offset + 1})
	}

	if col, ok := cutSuffixFold(text, ".!null"); ok {
		return nullTest(col, true, s.offset)
	}
	if col, ok := cutSuffixFold(text, ".null"); ok {
		return nullTest(col, false, s.offset)
	}

	if m := membershipPattern.FindStringSubmatch(text); m != nil {
		return c.parseMembership(m[1], strings.ToLower(m[2]) == "nin", m[3], s.offset+len(m[1])+len(m[2])+2)
	}

	return c.parseComparison(s)
}

// cutSuffixFold is strings.CutSuffix with case folding, matching the
// case-insensitive .in/.nin pattern.
func cutSuffixFold(s, suffix string) (string, bool) {
	if len(s) < len(suffix) || !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}

func nullTest(col string, negated bool, offset int) (ast.Condition, error) {
	if col == "" {
		return nil, errorf(offset, "null test is missing a column")
	}
	return ast.NullTest{Column: col, Negated: negated}, nil
}

func (c conditionParser) parseMembership(col string, negated bool, list string, offset int) (ast.Condition, error) {
	if strings.TrimSpace(list) == "" {
		return nil, errorf(offset, "%s.%s() requires at least one value", col, membershipName(negated))
	}
	parts := splitTopLevel(list, ',', offset)
	values := make([]any, 0, len(parts))
	for _, part := range parts {
		part = part.trim()
		if part.text == "" {
			return nil, errorf(part.offset, "empty value in %s.%s() list", col, membershipName(negated))
		}
		values = append(values, CoerceLiteral(part.text))
	}
	return ast.SetMembership{Column: col, Values: values, Negated: negated}, nil
}

func membershipName(negated bool) string {
	if negated {
		return "nin"
	}
	return "in"
}

func (c conditionParser) parseComparison(s segment) (ast.Condition, error) {
	idx, op := findOperator(s.text)
	if idx < 0 {
		return nil, errorf(s.offset, "invalid condition %q: no comparison operator", s.text)
	}
	left := strings.TrimSpace(s.text[:idx])
	right := strings.TrimSpace(s.text[idx+len(op):])
	if left == "" {
		return nil, errorf(s.offset, "condition %q is missing a column", s.text)
	}
	if right == "" {
		return nil, errorf(s.offset+idx, "condition %q is missing a value", s.text)
	}

	var operand any
	if c.mode == columnOperands && !isQuoted(right) && !isNumeric(right) {
		operand = ast.ColumnRef(right)
	} else {
		operand = CoerceLiteral(right)
	}
	return ast.Comparison{Left: left, Operator: op, Right: operand}, nil
}

// findOperator returns the first comparison operator outside quotes and
// parentheses, preferring two-character operators at each position.
func findOperator(s string) (int, ast.ComparisonOperator) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
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
			continue
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 {
			continue
		}
		for _, op := range ast.Operators {
			if strings.HasPrefix(s[i:], string(op)) {
				return i, op
			}
		}
	}
	return -1, ""
}

// allConditionStarts reports whether every segment begins like a condition.
func allConditionStarts(parts []segment) bool {
	for _, part := range parts {
		text := strings.TrimSpace(part.text)
		if text == "" {
			return false
		}
		r, _ := utf8.DecodeRuneInString(text)
		if !isConditionStart(r) {
			return false
		}
	}
	return true
}

// isConditionStart reports whether r can begin a condition in a comma list.
// A parenthesised group only counts as an atom, never as a list member.
func isConditionStart(r rune) bool {
	return r == '_' || r == '!' || unicode.IsLetter(r)
}

func errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Position: pos, Message: fmt.Sprintf(format, args...)}
}
