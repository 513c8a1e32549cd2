package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubev2v/docctl/internal/config"
	"github.com/kubev2v/docctl/internal/models"
	"github.com/kubev2v/docctl/internal/printer"
	"github.com/kubev2v/docctl/internal/services"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
	"github.com/kubev2v/docctl/pkg/where"
)

type getOptions struct {
	where   []string
	orderBy []string
	limit   int
	json    bool
	output  string
	explain bool
}

func NewGetCommand(cfg *config.Configuration) *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print a document or query a collection",
		Long: `Print the document at <path>, or the documents of the collection at <path>.

A --where expression is a list of "field comparator value" clauses joined
with and/or. The expression is split at the first "or", then at the first
"and", so "and" binds tighter and both group to the right:

  a == 1 and b == 2 or c == 3   is   (a == 1 and b == 2) or c == 3

Any and-chain of clauses may precede an "or". List values are JSON arrays,
quote them for the shell.`,
		Example: `  docctl get users/dan
  docctl get users --where "age >= 21" --order-by age:desc --limit 10
  docctl get users --where 'tags array-contains-any ["admin","ops"]' --json
  docctl get users --where 'hair in ["brown","black"]' --explain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("where") {
				opts.where = nil
			}

			if opts.explain {
				return explain(cmd, opts.where)
			}

			var docs []models.Document
			err := withDocumentService(cmd.Context(), cfg, func(ctx context.Context, svc *services.DocumentService) error {
				var err error
				docs, err = svc.Fetch(ctx, args[0], services.QueryParams{
					Where:   opts.where,
					OrderBy: opts.orderBy,
					Limit:   opts.limit,
				})
				return err
			})
			if err != nil {
				return err
			}

			if opts.output != "" {
				if err := writeOutput(opts.output, docs, cfg.Output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d documents to %s\n", len(docs), opts.output)
				return nil
			}

			out := cmd.OutOrStdout()
			p := printer.New(printer.Options{
				Indent: cfg.Output.WhiteSpace,
				Depth:  cfg.Output.PrintDepth,
				Color:  !cfg.NoColor && printer.IsTerminal(out),
			})

			var buf bytes.Buffer
			if opts.json {
				err = p.JSON(&buf, docs)
			} else {
				err = p.Pretty(&buf, docs)
			}
			if err != nil {
				return err
			}

			return printer.NewPager(out, !cfg.Output.NoPager).Write(buf.Bytes())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.where, "where", "w", nil, "Filter expression, e.g. \"age >= 21 and hair == brown\"")
	flags.StringSliceVar(&opts.orderBy, "order-by", nil, "Sort by field[:asc|desc], repeatable")
	flags.IntVarP(&opts.limit, "limit", "l", 0, "Maximum number of documents, 0 for no limit")
	flags.BoolVar(&opts.json, "json", false, "Print JSON instead of the coloured listing")
	flags.StringVarP(&opts.output, "output", "o", "", "Write the documents to a .json or .xlsx file")
	flags.BoolVar(&opts.explain, "explain", false, "Print the compiled filter and exit")
	flags.IntVar(&cfg.Output.WhiteSpace, "white-space", cfg.Output.WhiteSpace, "Spaces per indentation level")
	flags.IntVar(&cfg.Output.PrintDepth, "print-depth", cfg.Output.PrintDepth, "Nested levels printed before eliding, 0 for all")
	flags.BoolVar(&cfg.Output.NoPager, "no-pager", cfg.Output.NoPager, "Do not pipe output through less")

	return cmd
}

func explain(cmd *cobra.Command, values []string) error {
	if values == nil {
		return srvErrors.NewInvalidArgumentError("--explain needs --where")
	}

	expr, err := where.CompileArgs(values)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, expr.String())

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(where.ToFilter(expr))
}

func writeOutput(path string, docs []models.Document, opts config.Output) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return printer.WriteXLSX(path, docs)
	case ".json":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		return printer.New(printer.Options{Indent: opts.WhiteSpace}).JSON(f, docs)
	default:
		return srvErrors.NewInvalidArgumentError("unsupported output file %s: use .json or .xlsx", path)
	}
}
