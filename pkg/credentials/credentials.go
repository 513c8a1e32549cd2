package credentials

import (
	"errors"

	"github.com/kubev2v/docctl/internal/models"
)

// ErrNotFound is returned when no credentials were saved by login.
var ErrNotFound = errors.New("credentials not found")

// Store defines the interface for credential storage.
type Store interface {
	// Save persists the key path and database chosen at login.
	Save(creds models.Credentials) error

	// Load retrieves the stored credentials.
	// Returns ErrNotFound if no credentials are stored.
	Load() (*models.Credentials, error)

	// Delete removes the stored credentials.
	// Returns nil if no credentials exist.
	Delete() error

	// Exists checks if credentials are stored.
	Exists() bool
}
