package models

// Document is a snapshot of one stored document.
type Document struct {
	ID   string
	Path string
	Data map[string]any
}

type WriteOpKind int

const (
	SetOp WriteOpKind = iota
	DeleteOp
)

// WriteOp is one entry of a batched write.
type WriteOp struct {
	Kind  WriteOpKind
	Path  Path
	Data  map[string]any
	Merge bool
}

// OrderField sorts query results by a field.
type OrderField struct {
	Field string
	Desc  bool
}

// QueryOptions are applied after the where filter.
type QueryOptions struct {
	Limit   int
	OrderBy []OrderField
}
