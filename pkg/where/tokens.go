package where

import "strings"

// Comparator is one of the fixed set of field operators.
type Comparator int

const (
	illegalComparator Comparator = iota
	Equal
	NotEqual
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
	In
	NotIn
	ArrayContains
	ArrayContainsAny
)

var comparatorSymbols = map[Comparator]string{
	Equal:            "==",
	NotEqual:         "!=",
	Greater:          ">",
	GreaterOrEqual:   ">=",
	Less:             "<",
	LessOrEqual:      "<=",
	In:               "in",
	NotIn:            "not-in",
	ArrayContains:    "array-contains",
	ArrayContainsAny: "array-contains-any",
}

var comparatorsBySymbol = func() map[string]Comparator {
	m := make(map[string]Comparator, len(comparatorSymbols))
	for c, s := range comparatorSymbols {
		m[s] = c
	}
	return m
}()

// ParseComparator returns the comparator for symbol. The match is case-sensitive.
func ParseComparator(symbol string) (Comparator, bool) {
	c, ok := comparatorsBySymbol[symbol]
	return c, ok
}

// String returns the comparator symbol as accepted on the command line.
func (c Comparator) String() string {
	if s, ok := comparatorSymbols[c]; ok {
		return s
	}
	return "illegal"
}

// MultiValue reports whether the comparator takes a list value.
func (c Comparator) MultiValue() bool {
	switch c {
	case In, NotIn, ArrayContainsAny:
		return true
	default:
		return false
	}
}

// Comparators returns every supported comparator symbol.
func Comparators() []string {
	return []string{"==", "!=", ">", ">=", "<", "<=", "in", "not-in", "array-contains", "array-contains-any"}
}

// Connective joins two expressions.
type Connective int

const (
	And Connective = iota + 1
	Or
)

func (c Connective) String() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "illegal"
	}
}

// ParseConnective matches "and"/"or" in any case.
func ParseConnective(s string) (Connective, bool) {
	switch strings.ToLower(s) {
	case "and":
		return And, true
	case "or":
		return Or, true
	default:
		return 0, false
	}
}

// TokenKind classifies a token.
type TokenKind int

const (
	LiteralToken TokenKind = iota
	ConnectiveToken
	ComparatorToken
)

var tokenKindNames = map[TokenKind]string{
	LiteralToken:    "literal",
	ConnectiveToken: "connective",
	ComparatorToken: "comparator",
}

func (k TokenKind) String() string {
	return tokenKindNames[k]
}

// Token is a raw command line word after classification and coercion.
type Token struct {
	Kind  TokenKind
	Raw   string
	Value Value

	connective Connective
	comparator Comparator
}

// Connective returns the connective when Kind is ConnectiveToken.
func (t Token) Connective() (Connective, bool) {
	return t.connective, t.Kind == ConnectiveToken
}

// Comparator returns the comparator when Kind is ComparatorToken.
func (t Token) Comparator() (Comparator, bool) {
	return t.comparator, t.Kind == ComparatorToken
}

// String renders the coerced value, which is what error messages show.
func (t Token) String() string {
	return t.Value.String()
}

func formatTokens(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
