package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-extras/cobraflags"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/docctl/internal/config"
)

// EnvPrefix prefixes the environment variable of every flag: --log-level is DOCCTL_LOG_LEVEL.
const EnvPrefix = "DOCCTL"

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.NewConfigurationWithOptionsAndDefaults()
	root := NewRootCommand(cfg)

	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func NewRootCommand(cfg *config.Configuration) *cobra.Command {
	root := &cobra.Command{
		Use:   "docctl",
		Short: "Query and edit documents in Firestore or a local document store",
		Long: `docctl reads and writes documents from the shell.

Collections are queried with --where expressions such as

  docctl get users --where "age >= 21 and hair == brown or name == Dave"

Comparators: == != > >= < <= in not-in array-contains array-contains-any.
Clauses are joined with and/or; "or" splits the expression first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: cobrautil.CommandStack(
			syncEnv,
			func(cmd *cobra.Command, _ []string) error {
				if err := validateConfiguration(cfg); err != nil {
					return err
				}
				if cfg.NoColor {
					color.NoColor = true
				}
				return setupLogging(cfg)
			},
		),
	}

	registerGlobalFlags(root.PersistentFlags(), cfg)

	root.AddCommand(
		NewGetCommand(cfg),
		NewAddCommand(cfg),
		NewSetCommand(cfg),
		NewUpdateCommand(cfg),
		NewDeleteCommand(cfg),
		NewImportCommand(cfg),
		NewLoginCommand(cfg),
		NewLogoutCommand(cfg),
	)

	return root
}

func registerGlobalFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.StringVar(&cfg.Backend.Kind, "backend", cfg.Backend.Kind, "Document backend: firestore or local")
	flags.StringVar(&cfg.Backend.SecretKey, "secret-key", cfg.Backend.SecretKey, "Path to a service-account key file")
	flags.StringVar(&cfg.Backend.ProjectID, "project-id", cfg.Backend.ProjectID, "Project id, defaults to the project of the key")
	flags.StringVar(&cfg.Backend.DatabaseID, "database-id", cfg.Backend.DatabaseID, "Firestore database id")
	flags.StringVar(&cfg.Backend.LocalFile, "local-file", cfg.Backend.LocalFile, "DuckDB file of the local backend (default <config-dir>/local.duckdb)")
	flags.StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Directory for saved credentials and local data")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Deadline of a command")
	flags.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
}

// syncEnv applies DOCCTL_* variables to flags not given on the command line.
func syncEnv(cmd *cobra.Command, _ []string) error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cobraflags.PresetRequiredFlags(EnvPrefix, make(map[*pflag.Flag]bool), cmd)
	return nil
}

func validateConfiguration(cfg *config.Configuration) error {
	if err := cfg.ResolvePaths(); err != nil {
		return err
	}
	return cfg.Validate()
}

func setupLogging(cfg *config.Configuration) error {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		if !cfg.NoColor {
			zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	zc.Level = level
	zc.Encoding = cfg.LogFormat
	zc.Sampling = nil
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}
