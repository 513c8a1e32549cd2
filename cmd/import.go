package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubev2v/docctl/internal/config"
	"github.com/kubev2v/docctl/internal/services"
)

func NewImportCommand(cfg *config.Configuration) *cobra.Command {
	var (
		file  string
		merge bool
	)

	cmd := &cobra.Command{
		Use:   "import <collection>",
		Short: "Write the documents of a get --json file into a collection",
		Example: `  docctl get users --json --no-pager > users.json
  docctl import users_copy --file users.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer closeFn()

			var n int
			err = withDocumentService(cmd.Context(), cfg, func(ctx context.Context, svc *services.DocumentService) error {
				n, err = svc.Import(ctx, args[0], r, merge)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents into %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file in the get --json format, - for stdin")
	cmd.Flags().BoolVar(&merge, "merge", false, "Merge into existing documents instead of overwriting them")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
