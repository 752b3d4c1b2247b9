// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render serializes an ir.Document to text. Supported formats are
// gfm (GitHub-flavored Markdown), markdown, plain, html and json.
//
// Before writing, the tree is checked for structural problems; a malformed
// tree produces a *StructureError, which indicates a bug in whatever built
// the tree rather than bad input.
package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/n2y/internal/ir"
)

// Formats lists the supported output formats.
var Formats = []string{"gfm", "markdown", "plain", "html", "json"}

// Option flags understood by Render.
const (
	// OptStandalone wraps html output in a complete document.
	OptStandalone = "--standalone"
	// OptNoFootnotes drops footnote bodies, keeping only their markers.
	OptNoFootnotes = "--no-footnotes"
)

var extensions = map[string]string{
	"gfm":      "md",
	"markdown": "md",
	"plain":    "txt",
	"html":     "html",
	"json":     "json",
}

// Extension returns the customary file extension for format.
func Extension(format string) string {
	if ext, ok := extensions[baseFormat(format)]; ok {
		return ext
	}
	return baseFormat(format)
}

// IsMarkdown reports whether format is one of the Markdown flavors.
func IsMarkdown(format string) bool {
	f := baseFormat(format)
	return f == "gfm" || f == "markdown"
}

// baseFormat strips pandoc-style extension suffixes such as
// "gfm+tex_math_dollars".
func baseFormat(format string) string {
	if i := strings.IndexAny(format, "+-"); i > 0 {
		return format[:i]
	}
	return format
}

// StructureError reports a node the writer cannot serialize.
type StructureError struct {
	Format string
	Node   any
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("cannot render %T as %s: %s", e.Node, e.Format, e.Reason)
}

// Renderer renders documents. The zero value is ready to use.
type Renderer struct{}

// New returns a Renderer.
func New() *Renderer { return &Renderer{} }

// Render serializes doc to format. Unknown formats are an error.
func (r *Renderer) Render(doc ir.Document, format string, opts []string) (string, error) {
	return Render(doc, format, opts)
}

// Render serializes doc to format using the package-level writers.
func Render(doc ir.Document, format string, opts []string) (string, error) {
	f := baseFormat(format)
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
	if err := validate(f, doc.Blocks); err != nil {
		return "", err
	}
	o := parseOptions(opts)
	switch f {
	case "gfm", "markdown":
		return newMarkdown(f == "gfm", o).document(doc)
	case "plain":
		return newPlain(o).document(doc)
	case "html":
		return renderHTML(doc, o)
	default:
		return renderJSON(doc)
	}
}

type options struct {
	standalone  bool
	noFootnotes bool
}

func parseOptions(opts []string) options {
	var o options
	for _, opt := range opts {
		switch opt {
		case OptStandalone, "-s":
			o.standalone = true
		case OptNoFootnotes:
			o.noFootnotes = true
		}
	}
	return o
}

func validate(format string, blocks []ir.Block) error {
	for _, b := range blocks {
		if err := validateBlock(format, b); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(format string, b ir.Block) error {
	switch v := b.(type) {
	case nil:
		return &StructureError{Format: format, Node: b, Reason: "nil block"}
	case ir.Para:
		return validateInlines(format, v.Inlines)
	case ir.Plain:
		return validateInlines(format, v.Inlines)
	case ir.Header:
		if v.Level < 1 || v.Level > 6 {
			return &StructureError{Format: format, Node: v, Reason: fmt.Sprintf("header level %d out of range 1-6", v.Level)}
		}
		return validateInlines(format, v.Inlines)
	case ir.BlockQuote:
		return validate(format, v.Blocks)
	case ir.Div:
		return validate(format, v.Blocks)
	case ir.BulletList:
		return validateItems(format, v.Items)
	case ir.OrderedList:
		if v.Start < 0 {
			return &StructureError{Format: format, Node: v, Reason: "negative list start"}
		}
		return validateItems(format, v.Items)
	case ir.Table:
		width := len(v.Columns)
		for _, row := range append(slices.Clone(v.Head), v.Body...) {
			if width > 0 && len(row.Cells) > width {
				return &StructureError{Format: format, Node: v, Reason: fmt.Sprintf("row has %d cells but table has %d columns", len(row.Cells), width)}
			}
			for _, c := range row.Cells {
				if err := validate(format, c.Blocks); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateItems(format string, items [][]ir.Block) error {
	for _, item := range items {
		if err := validate(format, item); err != nil {
			return err
		}
	}
	return nil
}

func validateInlines(format string, ns []ir.Inline) error {
	for _, n := range ns {
		switch v := n.(type) {
		case nil:
			return &StructureError{Format: format, Node: n, Reason: "nil inline"}
		case ir.Strong:
			if err := validateInlines(format, v.Content); err != nil {
				return err
			}
		case ir.Emph:
			if err := validateInlines(format, v.Content); err != nil {
				return err
			}
		case ir.Underline:
			if err := validateInlines(format, v.Content); err != nil {
				return err
			}
		case ir.Strikeout:
			if err := validateInlines(format, v.Content); err != nil {
				return err
			}
		case ir.Link:
			if err := validateInlines(format, v.Content); err != nil {
				return err
			}
		case ir.Note:
			if err := validate(format, v.Blocks); err != nil {
				return err
			}
		}
	}
	return nil
}
