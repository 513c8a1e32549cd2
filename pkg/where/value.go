package where

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the type tag of a Value.
type ValueKind int

const (
	StringKind ValueKind = iota
	IntKind
	FloatKind
	BoolKind
	NullKind
	ListKind
)

var valueKindNames = map[ValueKind]string{
	StringKind: "string",
	IntKind:    "int",
	FloatKind:  "float",
	BoolKind:   "bool",
	NullKind:   "null",
	ListKind:   "list",
}

func (k ValueKind) String() string {
	return valueKindNames[k]
}

// Value is a coerced literal. Bool and null values only occur as list
// elements since a bare token is never coerced to either.
type Value struct {
	kind ValueKind
	str  string
	i    int64
	f    float64
	b    bool
	list []Value
}

func StringValue(s string) Value  { return Value{kind: StringKind, str: s} }
func IntValue(i int64) Value      { return Value{kind: IntKind, i: i} }
func FloatValue(f float64) Value  { return Value{kind: FloatKind, f: f} }
func BoolValue(b bool) Value      { return Value{kind: BoolKind, b: b} }
func NullValue() Value            { return Value{kind: NullKind} }
func ListValue(vs ...Value) Value { return Value{kind: ListKind, list: vs} }

func (v Value) Kind() ValueKind { return v.kind }

// IsNumber reports whether the value is an int or a float.
func (v Value) IsNumber() bool {
	return v.kind == IntKind || v.kind == FloatKind
}

// IsList reports whether the value is a list.
func (v Value) IsList() bool {
	return v.kind == ListKind
}

// Str returns the string and true for string values.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == StringKind
}

// Float returns the numeric value as float64 for int and float values.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case IntKind:
		return float64(v.i), true
	case FloatKind:
		return v.f, true
	default:
		return 0, false
	}
}

// Bool returns the boolean and true for bool values.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == BoolKind
}

// List returns the elements of a list value.
func (v Value) List() []Value {
	if v.kind != ListKind {
		return nil
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out
}

// Native returns the plain Go value: string, int64, float64, bool, nil or []any.
func (v Value) Native() any {
	switch v.kind {
	case StringKind:
		return v.str
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case BoolKind:
		return v.b
	case ListKind:
		out := make([]any, 0, len(v.list))
		for _, e := range v.list {
			out = append(out, e.Native())
		}
		return out
	default:
		return nil
	}
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case StringKind:
		return v.str == o.str
	case IntKind:
		return v.i == o.i
	case FloatKind:
		return v.f == o.f
	case BoolKind:
		return v.b == o.b
	case ListKind:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
	}
	return true
}

// String quotes strings so "30" and 30 stay distinguishable in messages.
func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return strconv.Quote(v.str)
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.b)
	case NullKind:
		return "null"
	case ListKind:
		parts := make([]string, 0, len(v.list))
		for _, e := range v.list {
			parts = append(parts, e.String())
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("<%d>", v.kind)
	}
}
