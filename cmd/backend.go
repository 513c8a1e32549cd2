package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kubev2v/docctl/internal/config"
	"github.com/kubev2v/docctl/internal/firestore"
	"github.com/kubev2v/docctl/internal/services"
	"github.com/kubev2v/docctl/internal/store"
	"github.com/kubev2v/docctl/pkg/credentials"
)

// openBackend connects to the configured backend. The returned func releases it.
func openBackend(ctx context.Context, cfg *config.Configuration) (services.Backend, func() error, error) {
	switch cfg.Backend.Kind {
	case config.LocalBackend:
		if err := os.MkdirAll(filepath.Dir(cfg.Backend.LocalFile), 0o700); err != nil {
			return nil, nil, fmt.Errorf("creating directory for %s: %w", cfg.Backend.LocalFile, err)
		}
		st, err := store.Open(ctx, cfg.Backend.LocalFile)
		if err != nil {
			return nil, nil, err
		}
		return st.Documents(), st.Close, nil
	default:
		auth := newAuthService(cfg)
		keyPath, err := auth.KeyPath(cfg.Backend.SecretKey)
		if err != nil {
			return nil, nil, err
		}

		databaseID := cfg.Backend.DatabaseID
		if saved := auth.DatabaseID(); databaseID == config.DefaultDatabaseID && saved != "" {
			databaseID = saved
		}

		client, err := firestore.NewClient(ctx, firestore.Options{
			KeyFile:    keyPath,
			ProjectID:  cfg.Backend.ProjectID,
			DatabaseID: databaseID,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
}

func newAuthService(cfg *config.Configuration) *services.AuthService {
	return services.NewAuthService(credentials.NewDiskStore(cfg.ConfigDir))
}

// withDocumentService runs fn against a document service on the configured
// backend, within the command timeout.
func withDocumentService(ctx context.Context, cfg *config.Configuration, fn func(context.Context, *services.DocumentService) error) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	backend, closeFn, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	return fn(ctx, services.NewDocumentService(backend))
}
