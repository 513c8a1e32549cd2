package where

import (
	"errors"
	"fmt"
)

// Clause is a single field/comparator/value condition.
type Clause struct {
	Field string
	Op    Comparator
	Value Value
}

// IsValidComparator reports whether the token is one of the supported comparators.
func IsValidComparator(t Token) bool {
	_, ok := t.Comparator()
	return ok
}

// IsClause reports whether tokens form exactly one field/comparator/value triple.
func IsClause(tokens []Token) bool {
	if len(tokens) != 3 {
		return false
	}
	if _, ok := tokens[0].Value.Str(); !ok {
		return false
	}
	return IsValidComparator(tokens[1])
}

// NewClause builds a validated clause from a triple accepted by IsClause.
func NewClause(tokens []Token) (Clause, error) {
	if !IsClause(tokens) {
		return Clause{}, fmt.Errorf("invalid where clause: %s", formatTokens(tokens))
	}
	field, _ := tokens[0].Value.Str()
	op, _ := tokens[1].Comparator()

	c := Clause{Field: field, Op: op, Value: tokens[2].Value}
	if err := c.Validate(); err != nil {
		return Clause{}, fmt.Errorf("invalid where clause %s: %w", formatTokens(tokens), err)
	}
	return c, nil
}

// Validate checks the field and the coupling between comparator and value shape:
// in, not-in and array-contains-any take a non-empty list, every other comparator a scalar.
func (c Clause) Validate() error {
	if c.Field == "" {
		return errors.New("field must not be empty")
	}
	if _, ok := comparatorSymbols[c.Op]; !ok {
		return fmt.Errorf("unknown comparator %d", c.Op)
	}
	if c.Op.MultiValue() {
		if !c.Value.IsList() {
			return fmt.Errorf("%s requires a list value, got %s", c.Op, c.Value.Kind())
		}
		if len(c.Value.list) == 0 {
			return fmt.Errorf("%s requires a non-empty list", c.Op)
		}
		return nil
	}
	if c.Value.IsList() {
		return fmt.Errorf("%s requires a scalar value, got list", c.Op)
	}
	return nil
}

// String renders the clause with its coerced value.
func (c Clause) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Field, c.Op, c.Value)
}

// Equal reports structural equality.
func (c Clause) Equal(o Clause) bool {
	return c.Field == o.Field && c.Op == o.Op && c.Value.Equal(o.Value)
}
