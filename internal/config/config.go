package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

const (
	FirestoreBackend = "firestore"
	LocalBackend     = "local"

	DefaultDatabaseID = "(default)"
	localFileName     = "local.duckdb"
	appName           = "docctl"
)

type Configuration struct {
	LogLevel  string        `default:"warn" validate:"oneof=debug info warn error"`
	LogFormat string        `default:"console" validate:"oneof=console json"`
	ConfigDir string
	Timeout   time.Duration `default:"30s" validate:"gt=0"`
	NoColor   bool
	Backend   Backend
	Output    Output
}

type Backend struct {
	Kind       string `default:"firestore" validate:"oneof=firestore local"`
	SecretKey  string
	ProjectID  string
	DatabaseID string `default:"(default)" validate:"required"`
	LocalFile  string
}

type Output struct {
	PrintDepth int  `default:"3" validate:"gte=0"`
	WhiteSpace int  `default:"2" validate:"gte=0,lte=10"`
	NoPager    bool
}

type ConfigurationOption func(*Configuration)

func WithConfigDir(dir string) ConfigurationOption {
	return func(c *Configuration) {
		c.ConfigDir = dir
	}
}

func WithBackend(kind string) ConfigurationOption {
	return func(c *Configuration) {
		c.Backend.Kind = kind
	}
}

func WithLocalFile(path string) ConfigurationOption {
	return func(c *Configuration) {
		c.Backend.Kind = LocalBackend
		c.Backend.LocalFile = path
	}
}

// NewConfigurationWithOptionsAndDefaults returns a configuration with struct
// tag defaults applied, then opts.
func NewConfigurationWithOptionsAndDefaults(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("invalid configuration defaults: %s", err))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolvePaths fills ConfigDir and the local store file when unset.
func (c *Configuration) ResolvePaths() error {
	if c.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolving config dir: %w", err)
		}
		c.ConfigDir = filepath.Join(base, appName)
	}
	if c.Backend.LocalFile == "" {
		c.Backend.LocalFile = filepath.Join(c.ConfigDir, localFileName)
	}
	return nil
}

// Validate checks struct constraints and reports them with flag names.
func (c *Configuration) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("invalid %s: %v (%s)", flagName(fe.Namespace()), fe.Value(), constraint(fe)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

var flagNames = map[string]string{
	"Configuration.LogLevel":           "log-level",
	"Configuration.LogFormat":          "log-format",
	"Configuration.Timeout":            "timeout",
	"Configuration.Backend.Kind":       "backend",
	"Configuration.Backend.DatabaseID": "database-id",
	"Configuration.Output.PrintDepth":  "print-depth",
	"Configuration.Output.WhiteSpace":  "white-space",
}

func flagName(namespace string) string {
	if n, ok := flagNames[namespace]; ok {
		return n
	}
	return namespace
}

func constraint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "required":
		return "must be set"
	default:
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	}
}
