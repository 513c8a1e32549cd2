package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubev2v/docctl/internal/config"
	"github.com/kubev2v/docctl/internal/models"
	"github.com/kubev2v/docctl/internal/services"
)

func NewAddCommand(cfg *config.Configuration) *cobra.Command {
	var id string
	data := &dataOptions{}

	cmd := &cobra.Command{
		Use:     "add <collection>",
		Short:   "Create a document in a collection",
		Example: `  docctl add users --id dan --data '{"name": "Dan", "age": 24}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := data.read(cmd)
			if err != nil {
				return err
			}

			var path models.Path
			err = withDocumentService(cmd.Context(), cfg, func(ctx context.Context, svc *services.DocumentService) error {
				path, err = svc.Add(ctx, args[0], id, fields)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Document id, a random UUID when empty")
	data.register(cmd)

	return cmd
}

func NewSetCommand(cfg *config.Configuration) *cobra.Command {
	var merge bool
	data := &dataOptions{}

	cmd := &cobra.Command{
		Use:     "set <document>",
		Short:   "Create or overwrite a document",
		Example: `  docctl set users/dan --merge --data '{"address": {"city": "Brno"}}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := data.read(cmd)
			if err != nil {
				return err
			}

			err = withDocumentService(cmd.Context(), cfg, func(ctx context.Context, svc *services.DocumentService) error {
				return svc.Set(ctx, args[0], fields, merge)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "set %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Merge the fields into the existing document")
	data.register(cmd)

	return cmd
}

func NewUpdateCommand(cfg *config.Configuration) *cobra.Command {
	data := &dataOptions{}

	cmd := &cobra.Command{
		Use:     "update <document>",
		Short:   "Replace top-level fields of an existing document",
		Example: `  docctl update users/dan --data '{"age": 25}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := data.read(cmd)
			if err != nil {
				return err
			}

			err = withDocumentService(cmd.Context(), cfg, func(ctx context.Context, svc *services.DocumentService) error {
				return svc.Update(ctx, args[0], fields)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
			return nil
		},
	}

	data.register(cmd)

	return cmd
}
