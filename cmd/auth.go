package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubev2v/docctl/internal/config"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
)

func NewLoginCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Remember a service-account key for later commands",
		Example: `  docctl login --secret-key ~/keys/project.json
  docctl login --secret-key ~/keys/project.json --database-id staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Backend.SecretKey == "" {
				return srvErrors.NewInvalidArgumentError("login needs --secret-key")
			}

			databaseID := ""
			if cmd.Flags().Changed("database-id") {
				databaseID = cfg.Backend.DatabaseID
			}

			sa, err := newAuthService(cfg).Login(cfg.Backend.SecretKey, databaseID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in to project %s as %s\n", sa.ProjectID, sa.ClientEmail)
			return nil
		},
	}
}

func NewLogoutCommand(cfg *config.Configuration) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved service-account key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			existed, err := newAuthService(cfg).Logout()
			if err != nil {
				return err
			}

			if existed {
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
			}
			return nil
		},
	}
}
