package printer

import (
	"bytes"
	"io"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// DefaultPager is started with -R so colours pass through.
var DefaultPager = []string{"less", "-R"}

// Pager sends output through less when writing to a terminal.
type Pager struct {
	out     io.Writer
	command []string
	enabled bool
}

// NewPager pages to out when enabled is set and out is a terminal.
func NewPager(out io.Writer, enabled bool) *Pager {
	return &Pager{
		out:     out,
		command: DefaultPager,
		enabled: enabled && IsTerminal(out),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write shows content, falling back to plain output when the pager cannot start.
func (p *Pager) Write(content []byte) error {
	if !p.enabled {
		_, err := p.out.Write(content)
		return err
	}

	cmd := exec.Command(p.command[0], p.command[1:]...)
	cmd.Stdin = bytes.NewReader(content)
	cmd.Stdout = p.out
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		zap.S().Named("pager").Warnw("could not start pager, printing directly", "pager", p.command[0], "error", err)
		_, err := p.out.Write(content)
		return err
	}
	return cmd.Wait()
}
