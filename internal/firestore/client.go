// Package firestore implements the document backend on Cloud Firestore.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/kubev2v/docctl/pkg/credentials"
)

// Options select the project, database and key file of a client.
type Options struct {
	KeyFile    string
	ProjectID  string
	DatabaseID string
}

// Client runs document operations against one Firestore database.
type Client struct {
	client *firestore.Client
	logger *zap.SugaredLogger
}

// New wraps an existing Firestore client.
func New(client *firestore.Client) *Client {
	return &Client{
		client: client,
		logger: zap.S().Named("firestore"),
	}
}

// NewClient authenticates with the service-account key in opts. The project
// defaults to the one named in the key.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	sa, err := credentials.LoadServiceAccount(opts.KeyFile)
	if err != nil {
		return nil, err
	}

	projectID := opts.ProjectID
	if projectID == "" {
		projectID = sa.ProjectID
	}

	databaseID := opts.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, option.WithCredentialsFile(opts.KeyFile))
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore project %s database %s: %w", projectID, databaseID, err)
	}

	c := New(client)
	c.logger.Debugw("connected", "project", projectID, "database", databaseID, "account", sa.ClientEmail)
	return c, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
