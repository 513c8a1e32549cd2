// Package errors provides custom error types for docctl.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌────────────────────────────┬─────────────────────────────────────────────┐
//	│ Error Type                 │ Description                                 │
//	├────────────────────────────┼─────────────────────────────────────────────┤
//	│ ResourceNotFoundError      │ Document or stored credentials missing      │
//	│ ResourceAlreadyExistsError │ add hit an existing document id             │
//	│ InvalidPathError           │ Path is not a collection/document path      │
//	│ InvalidArgumentError       │ Malformed document data or flag combination │
//	│ CredentialsError           │ Service-account key unreadable or invalid   │
//	└────────────────────────────┴─────────────────────────────────────────────┘
//
// Where-expression errors are reported by package where as where.ParseError.
//
// # ResourceNotFoundError
//
// Constructors:
//   - NewResourceNotFoundError(kind, id string)
//   - NewDocumentNotFoundError(path string)
//   - NewCredentialsNotFoundError()
//
// Both backends translate their own "not found" signal into this type: the
// Firestore backend maps codes.NotFound, the local backend maps sql.ErrNoRows.
//
// # ResourceAlreadyExistsError
//
// Returned by add when the target id is taken (codes.AlreadyExists or a
// primary key conflict).
//
// # CredentialsError
//
// Wraps the underlying read or decode error and supports errors.Unwrap.
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("get users/alice: %w", errors.NewDocumentNotFoundError("users/alice"))
//	errors.IsResourceNotFoundError(wrapped) // returns true
package errors
