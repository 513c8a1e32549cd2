package firestore

import (
	"cloud.google.com/go/firestore"

	"github.com/kubev2v/docctl/pkg/where"
)

// ApplyWhere narrows q by expr. An and-only tree becomes one Where call per
// clause. Any "or" in the tree is sent as a single composite filter.
// Nothing is applied when a clause is invalid.
func ApplyWhere(q firestore.Query, expr *where.Expression) (firestore.Query, error) {
	if expr == nil {
		return q, nil
	}

	clauses, ok := expr.Clauses()
	if !ok {
		f, err := EntityFilter(expr)
		if err != nil {
			return q, err
		}
		return q.WhereEntity(f), nil
	}

	for _, c := range clauses {
		if err := c.Validate(); err != nil {
			return q, err
		}
	}
	for _, c := range clauses {
		q = q.Where(c.Field, c.Op.String(), c.Value.Native())
	}
	return q, nil
}

// EntityFilter converts expr into a composite Firestore filter. Chains of the
// same connective are flattened into one OrFilter or AndFilter.
func EntityFilter(expr *where.Expression) (firestore.EntityFilter, error) {
	return where.Visit[firestore.EntityFilter](expr, entityVisitor{})
}

type entityVisitor struct{}

func (entityVisitor) VisitClause(c where.Clause) (firestore.EntityFilter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return firestore.PropertyFilter{Path: c.Field, Operator: c.Op.String(), Value: c.Value.Native()}, nil
}

func (entityVisitor) VisitBinary(op where.Connective, left, right firestore.EntityFilter) (firestore.EntityFilter, error) {
	if op == where.Or {
		var filters []firestore.EntityFilter
		for _, f := range []firestore.EntityFilter{left, right} {
			if or, ok := f.(firestore.OrFilter); ok {
				filters = append(filters, or.Filters...)
				continue
			}
			filters = append(filters, f)
		}
		return firestore.OrFilter{Filters: filters}, nil
	}

	var filters []firestore.EntityFilter
	for _, f := range []firestore.EntityFilter{left, right} {
		if and, ok := f.(firestore.AndFilter); ok {
			filters = append(filters, and.Filters...)
			continue
		}
		filters = append(filters, f)
	}
	return firestore.AndFilter{Filters: filters}, nil
}
