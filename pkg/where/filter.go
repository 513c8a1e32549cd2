package where

// FilterType is the node type of a composite Filter.
type FilterType string

const (
	FieldFilterType FilterType = "field"
	AndFilterType   FilterType = "and"
	OrFilterType    FilterType = "or"
)

// Filter is the composite filter shape used for --explain output and logs.
type Filter struct {
	Type     FilterType `json:"type"`
	Field    string     `json:"field,omitempty"`
	Op       string     `json:"op,omitempty"`
	Value    any        `json:"value,omitempty"`
	Children []Filter   `json:"children,omitempty"`
}

type filterVisitor struct{}

func (filterVisitor) VisitClause(c Clause) (Filter, error) {
	return Filter{Type: FieldFilterType, Field: c.Field, Op: c.Op.String(), Value: c.Value.Native()}, nil
}

// VisitBinary flattens nested nodes of the same connective into one children list.
func (filterVisitor) VisitBinary(op Connective, left, right Filter) (Filter, error) {
	t := AndFilterType
	if op == Or {
		t = OrFilterType
	}

	f := Filter{Type: t}
	for _, child := range []Filter{left, right} {
		if child.Type == t {
			f.Children = append(f.Children, child.Children...)
			continue
		}
		f.Children = append(f.Children, child)
	}
	return f, nil
}

// ToFilter converts an expression into the composite Filter shape.
func ToFilter(e *Expression) Filter {
	f, _ := Visit[Filter](e, filterVisitor{})
	return f
}
