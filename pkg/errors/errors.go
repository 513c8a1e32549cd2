package errors

import (
	"errors"
	"fmt"
)

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewDocumentNotFoundError(path string) *ResourceNotFoundError {
	return NewResourceNotFoundError("document", path)
}

func NewCredentialsNotFoundError() *ResourceNotFoundError {
	return NewResourceNotFoundError("credentials", "")
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// ResourceAlreadyExistsError indicates a create hit an existing resource.
type ResourceAlreadyExistsError struct {
	Kind string
	ID   string
}

func NewDocumentAlreadyExistsError(path string) *ResourceAlreadyExistsError {
	return &ResourceAlreadyExistsError{Kind: "document", ID: path}
}

func (e *ResourceAlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Kind, e.ID)
}

func IsResourceAlreadyExistsError(err error) bool {
	var e *ResourceAlreadyExistsError
	return errors.As(err, &e)
}

// InvalidPathError indicates a malformed document or collection path.
type InvalidPathError struct {
	Path   string
	Reason string
}

func NewInvalidPathError(path, reason string) *InvalidPathError {
	return &InvalidPathError{Path: path, Reason: reason}
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func IsInvalidPathError(err error) bool {
	var e *InvalidPathError
	return errors.As(err, &e)
}

// InvalidArgumentError indicates bad command input such as malformed document data.
type InvalidArgumentError struct {
	msg string
}

func NewInvalidArgumentError(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidArgumentError) Error() string {
	return e.msg
}

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// CredentialsError indicates an unusable service-account key.
type CredentialsError struct {
	Path string
	Err  error
}

func NewCredentialsError(path string, err error) *CredentialsError {
	return &CredentialsError{Path: path, Err: err}
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials %s: %s", e.Path, e.Err)
}

func (e *CredentialsError) Unwrap() error {
	return e.Err
}

func IsCredentialsError(err error) bool {
	var e *CredentialsError
	return errors.As(err, &e)
}
