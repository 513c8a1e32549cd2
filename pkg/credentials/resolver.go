package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kubev2v/docctl/internal/models"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
)

// EnvApplicationCredentials is the variable honoured by the Google SDKs.
const EnvApplicationCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

const serviceAccountType = "service_account"

// Resolve returns the key file path to use. The explicit flag wins over
// EnvApplicationCredentials, which wins over the path saved by login.
func Resolve(flagPath string, store Store) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}

	if env := os.Getenv(EnvApplicationCredentials); env != "" {
		return env, nil
	}

	if store == nil {
		return "", srvErrors.NewCredentialsNotFoundError()
	}

	creds, err := store.Load()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", srvErrors.NewCredentialsNotFoundError()
		}
		return "", fmt.Errorf("failed to load stored credentials: %w", err)
	}
	if creds.SecretKeyPath == "" {
		return "", srvErrors.NewCredentialsNotFoundError()
	}

	return creds.SecretKeyPath, nil
}

// LoadServiceAccount reads and checks a service-account key file.
func LoadServiceAccount(path string) (*models.ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, srvErrors.NewCredentialsError(path, err)
	}

	var sa models.ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, srvErrors.NewCredentialsError(path, fmt.Errorf("malformed key file: %w", err))
	}

	if sa.Type != serviceAccountType {
		return nil, srvErrors.NewCredentialsError(path, fmt.Errorf("expected type %q, got %q", serviceAccountType, sa.Type))
	}
	if sa.ProjectID == "" {
		return nil, srvErrors.NewCredentialsError(path, errors.New("project_id is missing"))
	}

	return &sa, nil
}
