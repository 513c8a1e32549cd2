package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubev2v/docctl/internal/services"
	srvErrors "github.com/kubev2v/docctl/pkg/errors"
)

type dataOptions struct {
	data string
	file string
}

func (o *dataOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.data, "data", "d", "", "Document fields as a JSON object")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Read the JSON object from a file, - for stdin")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	cmd.MarkFlagsOneRequired("data", "file")
}

// read decodes the document given with --data or --file.
func (o *dataOptions) read(cmd *cobra.Command) (map[string]any, error) {
	if o.file == "" {
		return services.ParseData(strings.NewReader(o.data))
	}

	r, closeFn, err := openInput(cmd, o.file)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return services.ParseData(r)
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, srvErrors.NewInvalidArgumentError("file %s does not exist", path)
		}
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
