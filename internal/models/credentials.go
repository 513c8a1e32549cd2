package models

// Credentials are persisted by the login command.
type Credentials struct {
	SecretKeyPath string `json:"secret_key_path"`
	DatabaseID    string `json:"database_id,omitempty"`
}

// ServiceAccount holds the fields docctl reads from a service-account key file.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}
