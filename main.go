package main

import (
	"os"

	"github.com/kubev2v/docctl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
