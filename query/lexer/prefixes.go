package lexer

import "strings"

// ClauseKind identifies the clause a token introduces.
type ClauseKind int

const (
	From ClauseKind = iota
	Select
	Where
	Order
	Limit
	Offset
	Group
	Having
	Join
	On
	Insert
	Columns
	Values
	Update
	Set
	Delete
	Returning
	With
)

var kindNames = [...]string{
	From:      "FROM",
	Select:    "SELECT",
	Where:     "WHERE",
	Order:     "ORDER",
	Limit:     "LIMIT",
	Offset:    "OFFSET",
	Group:     "GROUP",
	Having:    "HAVING",
	Join:      "JOIN",
	On:        "ON",
	Insert:    "INSERT",
	Columns:   "COLUMNS",
	Values:    "VALUES",
	Update:    "UPDATE",
	Set:       "SET",
	Delete:    "DELETE",
	Returning: "RETURNING",
	With:      "WITH",
}

// String returns the upper-case clause name.
func (k ClauseKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k ClauseKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Spelling groups the prefixes that map to one clause kind. The first
// spelling is the canonical one; Slang lists the alternate vocabulary.
type Spelling struct {
	Kind     ClauseKind
	Prefixes []string
	Slang    []string
}

var spellings = []Spelling{
	{Kind: From, Prefixes: []string{"from", "f"}, Slang: []string{"outta"}},
	{Kind: Select, Prefixes: []string{"sel", "select", "s"}, Slang: []string{"grab"}},
	{Kind: Where, Prefixes: []string{"whr", "where", "w"}, Slang: []string{"vibe"}},
	{Kind: Order, Prefixes: []string{"ord", "order", "o"}, Slang: []string{"sortby"}},
	{Kind: Limit, Prefixes: []string{"lim", "limit", "l"}, Slang: []string{"cap"}},
	{Kind: Offset, Prefixes: []string{"off", "offset"}, Slang: []string{"skip"}},
	{Kind: Group, Prefixes: []string{"grp", "group", "g"}, Slang: []string{"squad"}},
	{Kind: Having, Prefixes: []string{"hav", "having", "h"}, Slang: []string{"flex"}},
	{Kind: Join, Prefixes: []string{"join", "j"}, Slang: []string{"link"}},
	{Kind: On, Prefixes: []string{"on"}},
	{Kind: Insert, Prefixes: []string{"ins", "insert"}, Slang: []string{"stash"}},
	{Kind: Columns, Prefixes: []string{"cols", "columns"}},
	{Kind: Values, Prefixes: []string{"vals", "values"}},
	{Kind: Update, Prefixes: []string{"upd", "update"}, Slang: []string{"tweak"}},
	{Kind: Set, Prefixes: []string{"set"}},
	{Kind: Delete, Prefixes: []string{"del", "delete"}, Slang: []string{"yeet"}},
	{Kind: Returning, Prefixes: []string{"ret", "returning"}, Slang: []string{"gimme"}},
	{Kind: With, Prefixes: []string{"with"}},
}

// prefixTable is built once at init and only read afterwards.
var prefixTable = buildPrefixTable()

func buildPrefixTable() map[string]ClauseKind {
	table := make(map[string]ClauseKind)
	for _, s := range spellings {
		for _, p := range s.Prefixes {
			table[p] = s.Kind
		}
		for _, p := range s.Slang {
			table[p] = s.Kind
		}
	}
	return table
}

// LookupPrefix resolves a clause prefix, ignoring case.
func LookupPrefix(prefix string) (ClauseKind, bool) {
	kind, ok := prefixTable[strings.ToLower(prefix)]
	return kind, ok
}

// Spellings returns a copy of the prefix table in declaration order.
func Spellings() []Spelling {
	out := make([]Spelling, len(spellings))
	for i, s := range spellings {
		out[i] = Spelling{
			Kind:     s.Kind,
			Prefixes: append([]string(nil), s.Prefixes...),
			Slang:    append([]string(nil), s.Slang...),
		}
	}
	return out
}
