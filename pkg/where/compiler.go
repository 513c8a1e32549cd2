package where

import (
	"fmt"
)

// ParseError is the type of error returned by Compile and CompileArgs.
type ParseError struct {
	// Index of the first token of the offending partition.
	Position int
	// Error message.
	Message string
}

// Error returns a formatted version of the error, including the position.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at token %d: %s", e.Position, e.Message)
}

// CompileOption tunes the accepted grammar.
type CompileOption func(*compiler)

// WithSingleClauseLeftOperand requires the left side of an "or" to be a
// single clause, so "a == 1 and b == 2 or c == 3" is rejected.
func WithSingleClauseLeftOperand() CompileOption {
	return func(c *compiler) {
		c.singleClauseLeft = true
	}
}

type compiler struct {
	tokens           []Token
	singleClauseLeft bool
}

// CompileArgs splits each --where value, tokenizes the words and compiles them.
func CompileArgs(values []string, opts ...CompileOption) (*Expression, error) {
	var words []string
	for _, v := range values {
		w, err := Split(v)
		if err != nil {
			return nil, err
		}
		words = append(words, w...)
	}

	tokens, err := Tokenize(words)
	if err != nil {
		return nil, err
	}

	return Compile(tokens, opts...)
}

// Compile builds the expression tree for tokens.
//
// Compile uses panic/recover internally so the recursive methods can signal
// errors without threading (*Expression, error) through every call.
// ParseError panics are caught here and returned as normal errors;
// any other panic is re-raised.
func Compile(tokens []Token, opts ...CompileOption) (expr *Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(ParseError); ok {
				expr = nil
				err = pe
			} else {
				panic(r)
			}
		}
	}()

	c := &compiler{tokens: tokens}
	for _, opt := range opts {
		opt(c)
	}

	if len(tokens) == 0 {
		return nil, ParseError{Position: 0, Message: "must contain where clause if the --where flag is used"}
	}

	return c.expression(0, len(tokens)), nil
}

// expression compiles tokens[lo:hi], splitting at the first "or", then at
// the first "and".
func (c *compiler) expression(lo, hi int) *Expression {
	for _, op := range []Connective{Or, And} {
		if i := c.find(lo, hi, op); i >= 0 {
			var left *Expression
			if op == Or && c.singleClauseLeft {
				left = c.clause(lo, i)
			} else {
				left = c.operand(lo, i)
			}
			right := c.operand(i+1, hi)
			return newBinaryExpression(left, op, right)
		}
	}

	return c.clause(lo, hi)
}

// operand recurses when the partition still holds a connective and
// otherwise requires a bare clause.
func (c *compiler) operand(lo, hi int) *Expression {
	if c.find(lo, hi, Or) >= 0 || c.find(lo, hi, And) >= 0 {
		return c.expression(lo, hi)
	}
	return c.clause(lo, hi)
}

func (c *compiler) clause(lo, hi int) *Expression {
	partition := c.tokens[lo:hi]
	if !IsClause(partition) {
		panic(c.errorf(lo, "invalid where clause: %s", formatTokens(partition)))
	}

	cl, err := NewClause(partition)
	if err != nil {
		panic(c.errorf(lo, "%s", err))
	}
	return newClauseExpression(cl)
}

// find returns the index of the first op connective in tokens[lo:hi], or -1.
func (c *compiler) find(lo, hi int, op Connective) int {
	for i := lo; i < hi; i++ {
		if got, ok := c.tokens[i].Connective(); ok && got == op {
			return i
		}
	}
	return -1
}

// errorf formats an error at the given token position.
func (c *compiler) errorf(pos int, format string, args ...any) error {
	return ParseError{Position: pos, Message: fmt.Sprintf(format, args...)}
}
