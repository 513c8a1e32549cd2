package services

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kubev2v/docctl/internal/models"
	"github.com/kubev2v/docctl/pkg/credentials"
)

// AuthService remembers which service-account key the commands use.
type AuthService struct {
	store  credentials.Store
	logger *zap.SugaredLogger
}

func NewAuthService(store credentials.Store) *AuthService {
	return &AuthService{store: store, logger: zap.S().Named("auth_service")}
}

// Login checks the key file and saves its absolute path.
func (s *AuthService) Login(keyPath, databaseID string) (*models.ServiceAccount, error) {
	abs, err := filepath.Abs(keyPath)
	if err != nil {
		return nil, err
	}

	sa, err := credentials.LoadServiceAccount(abs)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(models.Credentials{SecretKeyPath: abs, DatabaseID: databaseID}); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}

	s.logger.Infow("logged in", "project", sa.ProjectID, "account", sa.ClientEmail)
	return sa, nil
}

// Logout forgets the saved key. It reports whether anything was saved.
func (s *AuthService) Logout() (bool, error) {
	existed := s.store.Exists()
	if err := s.store.Delete(); err != nil {
		return false, fmt.Errorf("removing credentials: %w", err)
	}
	return existed, nil
}

// KeyPath resolves the key file for a command.
func (s *AuthService) KeyPath(flagPath string) (string, error) {
	return credentials.Resolve(flagPath, s.store)
}

// DatabaseID returns the database saved at login, or "" when none was.
func (s *AuthService) DatabaseID() string {
	creds, err := s.store.Load()
	if err != nil {
		return ""
	}
	return creds.DatabaseID
}
