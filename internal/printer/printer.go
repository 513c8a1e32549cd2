// Package printer renders documents for the terminal and for export files.
package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/kubev2v/docctl/internal/models"
)

// Options control the pretty and JSON output.
type Options struct {
	// Indent is the number of spaces per nesting level.
	Indent int
	// Depth is the number of nested objects printed before eliding them as {...}.
	// Zero prints everything.
	Depth int
	Color bool
}

type Printer struct {
	opts Options

	id      *color.Color
	key     *color.Color
	number  *color.Color
	str     *color.Color
	boolean *color.Color
	null    *color.Color
}

func New(opts Options) *Printer {
	p := &Printer{
		opts:    opts,
		id:      color.New(color.FgCyan, color.Bold),
		key:     color.New(color.Reset),
		number:  color.New(color.FgBlue),
		str:     color.New(color.FgGreen),
		boolean: color.New(color.FgYellow),
		null:    color.New(color.Faint),
	}

	for _, c := range []*color.Color{p.id, p.key, p.number, p.str, p.boolean, p.null} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes each document as "<id> {...}" with coloured values.
func (p *Printer) Pretty(w io.Writer, docs []models.Document) error {
	var buf bytes.Buffer
	if len(docs) == 0 {
		buf.WriteString("[]\n")
	}

	for _, d := range docs {
		buf.WriteString(p.id.Sprint(d.ID))
		buf.WriteString(" ")
		p.object(&buf, d.Data, 0)
		buf.WriteString("\n")
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// JSON writes documents as [{"<id>": {...}}, ...]; the format read by import.
func (p *Printer) JSON(w io.Writer, docs []models.Document) error {
	entries := make([]map[string]map[string]any, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, map[string]map[string]any{d.ID: d.Data})
	}

	var (
		out []byte
		err error
	)
	if p.opts.Indent > 0 {
		out, err = json.MarshalIndent(entries, "", strings.Repeat(" ", p.opts.Indent))
	} else {
		out, err = json.Marshal(entries)
	}
	if err != nil {
		return fmt.Errorf("encoding documents: %w", err)
	}

	_, err = w.Write(append(out, '\n'))
	return err
}

func (p *Printer) object(buf *bytes.Buffer, obj map[string]any, level int) {
	if len(obj) == 0 {
		buf.WriteString("{}")
		return
	}
	if p.opts.Depth > 0 && level >= p.opts.Depth {
		buf.WriteString("{...}")
		return
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteString("{\n")
	for _, k := range keys {
		buf.WriteString(p.pad(level + 1))
		buf.WriteString(p.key.Sprint(k))
		buf.WriteString(": ")
		p.value(buf, obj[k], level+1)
		buf.WriteString("\n")
	}
	buf.WriteString(p.pad(level))
	buf.WriteString("}")
}

func (p *Printer) list(buf *bytes.Buffer, items []any, level int) {
	if len(items) == 0 {
		buf.WriteString("[]")
		return
	}
	if p.opts.Depth > 0 && level >= p.opts.Depth {
		buf.WriteString("[...]")
		return
	}

	buf.WriteString("[")
	for i, item := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		p.value(buf, item, level)
	}
	buf.WriteString("]")
}

func (p *Printer) value(buf *bytes.Buffer, v any, level int) {
	switch t := v.(type) {
	case nil:
		buf.WriteString(p.null.Sprint("null"))
	case string:
		buf.WriteString(p.str.Sprint("'" + t + "'"))
	case bool:
		buf.WriteString(p.boolean.Sprint(strconv.FormatBool(t)))
	case int64:
		buf.WriteString(p.number.Sprint(strconv.FormatInt(t, 10)))
	case int:
		buf.WriteString(p.number.Sprint(strconv.Itoa(t)))
	case float64:
		buf.WriteString(p.number.Sprint(strconv.FormatFloat(t, 'g', -1, 64)))
	case map[string]any:
		p.object(buf, t, level)
	case []any:
		p.list(buf, t, level)
	default:
		buf.WriteString(fmt.Sprint(t))
	}
}

func (p *Printer) pad(level int) string {
	indent := p.opts.Indent
	if indent <= 0 {
		indent = 2
	}
	return strings.Repeat(" ", indent*level)
}
