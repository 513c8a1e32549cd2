package where

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Coerce converts a raw token into a Value.
//
// Rules, in order:
//  1. listExpected: raw must be a JSON array literal.
//  2. raw parses fully as a number: int64 when integral, float64 otherwise.
//     Unsigned 0x, 0o and 0b integer literals are accepted. Infinity is not.
//  3. raw is wrapped in double quotes and the inner text is a number: the inner text as a string.
//  4. raw as a string.
func Coerce(raw string, listExpected bool) (Value, error) {
	if listExpected {
		v, err := parseList(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid list value %s: %w", raw, err)
		}
		return v, nil
	}

	if v, ok := parseNumber(raw); ok {
		return v, nil
	}

	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		inner := raw[1 : len(raw)-1]
		if _, ok := parseNumber(inner); ok {
			return StringValue(inner), nil
		}
	}

	return StringValue(raw), nil
}

// Tokenize classifies and coerces raw words. A word following a multi-value
// comparator in operator position is parsed as a JSON list. The operator
// position is the second word after the start or after a connective.
func Tokenize(raw []string) ([]Token, error) {
	tokens := make([]Token, 0, len(raw))
	listExpected := false
	slot := 0

	for pos, r := range raw {
		value, err := Coerce(r, listExpected)
		if err != nil {
			return nil, ParseError{Position: pos, Message: err.Error()}
		}

		tok := Token{Kind: LiteralToken, Raw: r, Value: value}
		if s, ok := value.Str(); ok {
			if c, ok := ParseConnective(s); ok {
				tok.Kind = ConnectiveToken
				tok.connective = c
			} else if c, ok := ParseComparator(s); ok {
				tok.Kind = ComparatorToken
				tok.comparator = c
			}
		}

		listExpected = slot == 1 && tok.Kind == ComparatorToken && tok.comparator.MultiValue()
		if tok.Kind == ConnectiveToken {
			slot = 0
		} else {
			slot++
		}
		tokens = append(tokens, tok)
	}

	return tokens, nil
}

func parseNumber(raw string) (Value, bool) {
	if raw == "" {
		return Value{}, false
	}
	if base, digits, ok := radixPrefix(raw); ok {
		u, err := strconv.ParseUint(digits, base, 64)
		if err != nil {
			return Value{}, false
		}
		if u > math.MaxInt64 {
			return FloatValue(float64(u)), true
		}
		return IntValue(int64(u)), true
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(i), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	return FloatValue(f), true
}

// radixPrefix splits an unsigned 0x, 0o or 0b integer literal.
func radixPrefix(raw string) (int, string, bool) {
	if len(raw) < 2 || raw[0] != '0' {
		return 0, "", false
	}
	switch raw[1] {
	case 'x', 'X':
		return 16, raw[2:], true
	case 'o', 'O':
		return 8, raw[2:], true
	case 'b', 'B':
		return 2, raw[2:], true
	}
	return 0, "", false
}

func parseList(raw string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("unexpected data after list")
	}

	arr, ok := decoded.([]any)
	if !ok {
		return Value{}, errors.New("not a JSON array")
	}
	return fromJSON(arr)
}

func fromJSON(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case []any:
		elems := make([]Value, 0, len(t))
		for _, e := range t {
			ev, err := fromJSON(e)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, ev)
		}
		return ListValue(elems...), nil
	default:
		return Value{}, fmt.Errorf("unsupported list element %T", v)
	}
}
