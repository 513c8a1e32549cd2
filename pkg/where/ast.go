package where

import "fmt"

// ExpressionKind tags the variant held by an Expression.
type ExpressionKind int

const (
	ClauseExpression ExpressionKind = iota
	BinaryExpression
)

// Expression is the compiled filter tree. A ClauseExpression holds a Clause;
// a BinaryExpression holds two operands joined by a connective.
// Expressions are immutable once compiled.
type Expression struct {
	Kind       ExpressionKind
	Clause     Clause
	Left       *Expression
	Connective Connective
	Right      *Expression
}

func newClauseExpression(c Clause) *Expression {
	return &Expression{Kind: ClauseExpression, Clause: c}
}

func newBinaryExpression(left *Expression, op Connective, right *Expression) *Expression {
	return &Expression{Kind: BinaryExpression, Left: left, Connective: op, Right: right}
}

// NewClauseExpression returns a leaf expression.
func NewClauseExpression(c Clause) *Expression {
	return newClauseExpression(c)
}

// NewBinaryExpression joins two expressions.
func NewBinaryExpression(left *Expression, op Connective, right *Expression) *Expression {
	return newBinaryExpression(left, op, right)
}

func (e *Expression) String() string {
	if e.Kind == ClauseExpression {
		return e.Clause.String()
	}
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Connective, e.Right.String())
}

// Equal reports structural equality of two trees.
func (e *Expression) Equal(o *Expression) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Kind != o.Kind {
		return false
	}
	if e.Kind == ClauseExpression {
		return e.Clause.Equal(o.Clause)
	}
	return e.Connective == o.Connective && e.Left.Equal(o.Left) && e.Right.Equal(o.Right)
}

// HasOr reports whether any node of the tree is an "or".
func (e *Expression) HasOr() bool {
	if e.Kind == ClauseExpression {
		return false
	}
	return e.Connective == Or || e.Left.HasOr() || e.Right.HasOr()
}

// Clauses returns the clauses in left to right order and true when the tree
// contains only "and" nodes. Such a tree can be applied as one filter per clause.
func (e *Expression) Clauses() ([]Clause, bool) {
	if e.HasOr() {
		return nil, false
	}
	var out []Clause
	var walk func(*Expression)
	walk = func(n *Expression) {
		if n.Kind == ClauseExpression {
			out = append(out, n.Clause)
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(e)
	return out, true
}

// Visitor folds an expression bottom-up into T.
type Visitor[T any] interface {
	VisitClause(c Clause) (T, error)
	VisitBinary(op Connective, left, right T) (T, error)
}

// Visit walks the tree bottom-up. The first error aborts the walk so no
// partial result is ever returned.
func Visit[T any](e *Expression, v Visitor[T]) (T, error) {
	if e.Kind == ClauseExpression {
		return v.VisitClause(e.Clause)
	}

	var zero T
	left, err := Visit(e.Left, v)
	if err != nil {
		return zero, err
	}
	right, err := Visit(e.Right, v)
	if err != nil {
		return zero, err
	}
	return v.VisitBinary(e.Connective, left, right)
}
