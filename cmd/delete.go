package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubev2v/docctl/internal/config"
	"github.com/kubev2v/docctl/internal/models"
	"github.com/kubev2v/docctl/internal/services"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
)

func NewDeleteCommand(cfg *config.Configuration) *cobra.Command {
	var (
		whereValues []string
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a document, or the documents of a collection",
		Example: `  docctl delete users/dan
  docctl delete users --where "age < 18"
  docctl delete users --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("where") {
				whereValues = nil
			}

			path, err := models.ParsePath(args[0])
			if err != nil {
				return err
			}

			return withDocumentService(cmd.Context(), cfg, func(ctx context.Context, svc *services.DocumentService) error {
				if path.IsDocument() {
					if whereValues != nil || all {
						return srvErrors.NewInvalidArgumentError("--where and --all need a collection path, %s is a document", path)
					}
					if err := svc.Delete(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", path)
					return nil
				}

				n, err := svc.DeleteWhere(ctx, args[0], whereValues, all)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d documents from %s\n", n, path)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&whereValues, "where", "w", nil, "Delete only documents matching the filter expression")
	cmd.Flags().BoolVar(&all, "all", false, "Delete every document of the collection")
	cmd.MarkFlagsMutuallyExclusive("where", "all")

	return cmd
}
