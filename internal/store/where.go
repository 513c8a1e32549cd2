package store

import (
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/docctl/internal/models"
	"github.com/kubev2v/docctl/pkg/where"
)

// JSON types reported by json_type
const (
	jsonTypeString = "VARCHAR"
	jsonTypeBool   = "BOOLEAN"
	jsonTypeNull   = "NULL"
	jsonTypeArray  = "ARRAY"
)

var sqlComparators = map[where.Comparator]string{
	where.Equal:          "=",
	where.Greater:        ">",
	where.GreaterOrEqual: ">=",
	where.Less:           "<",
	where.LessOrEqual:    "<=",
}

// Filters converts expr into WHERE terms. An and-only tree yields one term
// per clause; a tree with any "or" yields a single composite term. Either all
// terms are returned or none.
func Filters(expr *where.Expression) ([]sq.Sqlizer, error) {
	if expr == nil {
		return nil, nil
	}

	if clauses, ok := expr.Clauses(); ok {
		out := make([]sq.Sqlizer, 0, len(clauses))
		for _, c := range clauses {
			f, err := ClauseFilter(c)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}

	f, err := where.Visit[sq.Sqlizer](expr, filterBuilder{})
	if err != nil {
		return nil, err
	}
	return []sq.Sqlizer{f}, nil
}

type filterBuilder struct{}

func (filterBuilder) VisitClause(c where.Clause) (sq.Sqlizer, error) {
	return ClauseFilter(c)
}

func (filterBuilder) VisitBinary(op where.Connective, left, right sq.Sqlizer) (sq.Sqlizer, error) {
	if op == where.Or {
		return sq.Or{left, right}, nil
	}
	return sq.And{left, right}, nil
}

// ClauseFilter renders one clause against the data column. A comparison only
// matches fields holding the same JSON type as the value; "!=" and "not-in"
// never match a missing or null field.
func ClauseFilter(c where.Clause) (sq.Sqlizer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ref := fieldRef(c.Field)

	switch c.Op {
	case where.Equal:
		return equals(ref, c.Value)
	case where.NotEqual:
		eq, err := equals(ref, c.Value)
		if err != nil {
			return nil, err
		}
		return sq.And{present(ref), not{eq}}, nil
	case where.Greater, where.GreaterOrEqual, where.Less, where.LessOrEqual:
		return compare(ref, sqlComparators[c.Op], c.Value)
	case where.In:
		return anyOf(ref, c.Value.List(), equals)
	case where.NotIn:
		in, err := anyOf(ref, c.Value.List(), equals)
		if err != nil {
			return nil, err
		}
		return sq.And{present(ref), not{in}}, nil
	case where.ArrayContains:
		return contains(ref, c.Value)
	case where.ArrayContainsAny:
		return anyOf(ref, c.Value.List(), contains)
	}

	return nil, fmt.Errorf("unsupported comparator %s", c.Op)
}

func equals(ref string, v where.Value) (sq.Sqlizer, error) {
	switch v.Kind() {
	case where.NullKind:
		return sq.Expr(fmt.Sprintf("(json_type(data, %s) = '%s')", ref, jsonTypeNull)), nil
	case where.BoolKind:
		b, _ := v.Bool()
		return sq.Expr(fmt.Sprintf("(json_type(data, %s) = '%s' AND json_extract_string(data, %s) = ?)", ref, jsonTypeBool, ref), fmt.Sprint(b)), nil
	case where.ListKind:
		encoded, err := json.Marshal(v.Native())
		if err != nil {
			return nil, err
		}
		return sq.Expr(fmt.Sprintf("(json_type(data, %s) = '%s' AND CAST(json_extract(data, %s) AS VARCHAR) = ?)", ref, jsonTypeArray, ref), string(encoded)), nil
	}
	return compare(ref, "=", v)
}

func compare(ref, op string, v where.Value) (sq.Sqlizer, error) {
	if v.IsNumber() {
		f, _ := v.Float()
		return sq.Expr(fmt.Sprintf("(json_type(data, %s) IN ('BIGINT', 'UBIGINT', 'DOUBLE') AND TRY_CAST(json_extract(data, %s) AS DOUBLE) %s ?)", ref, ref, op), f), nil
	}
	if s, ok := v.Str(); ok {
		return sq.Expr(fmt.Sprintf("(json_type(data, %s) = '%s' AND json_extract_string(data, %s) %s ?)", ref, jsonTypeString, ref, op), s), nil
	}
	return nil, fmt.Errorf("cannot compare with %s value %s", v.Kind(), v)
}

func contains(ref string, v where.Value) (sq.Sqlizer, error) {
	encoded, err := json.Marshal(v.Native())
	if err != nil {
		return nil, err
	}
	// CASE keeps the JSON[] cast away from non-array values.
	return sq.Expr(fmt.Sprintf("(CASE WHEN json_type(data, %s) = '%s' THEN list_contains(CAST(json_extract(data, %s) AS JSON[]), CAST(? AS JSON)) ELSE false END)", ref, jsonTypeArray, ref), string(encoded)), nil
}

func anyOf(ref string, values []where.Value, term func(string, where.Value) (sq.Sqlizer, error)) (sq.Sqlizer, error) {
	or := make(sq.Or, 0, len(values))
	for _, v := range values {
		t, err := term(ref, v)
		if err != nil {
			return nil, err
		}
		or = append(or, t)
	}
	return or, nil
}

func present(ref string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf("(json_type(data, %s) <> '%s')", ref, jsonTypeNull))
}

// orderBy sorts numbers numerically and everything else by its text.
func orderBy(o models.OrderField) []string {
	ref := fieldRef(o.Field)
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return []string{
		fmt.Sprintf("TRY_CAST(json_extract(data, %s) AS DOUBLE) %s", ref, dir),
		fmt.Sprintf("json_extract_string(data, %s) %s", ref, dir),
	}
}

// fieldRef renders a dotted field name as a quoted JSON path SQL literal:
// address.city becomes '$."address"."city"'.
func fieldRef(field string) string {
	segments := strings.Split(field, ".")
	for i, s := range segments {
		segments[i] = `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	path := "$." + strings.Join(segments, ".")
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

type not struct {
	sq.Sqlizer
}

func (n not) ToSql() (string, []any, error) {
	s, args, err := n.Sqlizer.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + s + ")", args, nil
}
