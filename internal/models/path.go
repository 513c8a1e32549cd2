package models

import (
	"strings"

	srvErrors "github.com/kubev2v/docctl/pkg/errors"
)

// Path is a slash separated document-database path such as "users" or
// "users/alice/posts/p1". An odd number of segments names a collection,
// an even number a document.
type Path struct {
	segments []string
}

func ParsePath(raw string) (Path, error) {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return Path{}, srvErrors.NewInvalidPathError(raw, "path is empty")
	}

	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		switch s {
		case "":
			return Path{}, srvErrors.NewInvalidPathError(raw, "empty segment")
		case ".", "..":
			return Path{}, srvErrors.NewInvalidPathError(raw, "segment cannot be . or ..")
		}
	}
	return Path{segments: segments}, nil
}

// ParseCollectionPath parses raw and requires a collection path.
func ParseCollectionPath(raw string) (Path, error) {
	p, err := ParsePath(raw)
	if err != nil {
		return Path{}, err
	}
	if !p.IsCollection() {
		return Path{}, srvErrors.NewInvalidPathError(raw, "not a collection path")
	}
	return p, nil
}

// ParseDocumentPath parses raw and requires a document path.
func ParseDocumentPath(raw string) (Path, error) {
	p, err := ParsePath(raw)
	if err != nil {
		return Path{}, err
	}
	if !p.IsDocument() {
		return Path{}, srvErrors.NewInvalidPathError(raw, "not a document path")
	}
	return p, nil
}

func (p Path) IsCollection() bool {
	return len(p.segments)%2 == 1
}

func (p Path) IsDocument() bool {
	return len(p.segments) > 0 && len(p.segments)%2 == 0
}

// ID returns the last segment.
func (p Path) ID() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the collection of a document or the document owning a
// sub-collection. The parent of a root collection is the zero Path.
func (p Path) Parent() Path {
	if len(p.segments) <= 1 {
		return Path{}
	}
	return Path{segments: p.segments[:len(p.segments)-1]}
}

// Child appends one segment.
func (p Path) Child(id string) Path {
	segments := make([]string, 0, len(p.segments)+1)
	segments = append(segments, p.segments...)
	return Path{segments: append(segments, id)}
}

func (p Path) String() string {
	return strings.Join(p.segments, "/")
}
