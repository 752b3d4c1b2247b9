// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/n2y/internal/ir"
)

// plain writes unstyled text. Structure survives only as blank lines, list
// markers and indentation.
type plain struct {
	opts  options
	notes []string
}

func newPlain(opts options) *plain { return &plain{opts: opts} }

func (w *plain) document(doc ir.Document) (string, error) {
	body := w.blocks(doc.Blocks)
	if len(w.notes) > 0 && !w.opts.noFootnotes {
		defs := make([]string, len(w.notes))
		for i, n := range w.notes {
			defs[i] = fmt.Sprintf("[%d] %s", i+1, n)
		}
		body += "\n\n" + strings.Join(defs, "\n\n")
	}
	if body == "" {
		return "", nil
	}
	return body + "\n", nil
}

func (w *plain) blocks(bs []ir.Block) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		if s := w.block(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (w *plain) block(b ir.Block) string {
	switch v := b.(type) {
	case ir.Para:
		return w.inlines(v.Inlines)
	case ir.Plain:
		return w.inlines(v.Inlines)
	case ir.Header:
		return flattenBreaks(w.inlines(v.Inlines))
	case ir.CodeBlock:
		return prefixLines(v.Text, "    ", "")
	case ir.RawBlock:
		return ""
	case ir.BlockQuote:
		return prefixLines(w.blocks(v.Blocks), "  ", "")
	case ir.BulletList:
		return w.list(v.Items, func(int) string { return bulletMarker })
	case ir.OrderedList:
		start := v.Start
		if start == 0 {
			start = 1
		}
		return w.list(v.Items, func(i int) string { return orderedMarker(start + i) })
	case ir.HorizontalRule:
		return horizontalRule
	case ir.Table:
		var lines []string
		for _, r := range append(append([]ir.Row{}, v.Head...), v.Body...) {
			cells := make([]string, len(r.Cells))
			for i, c := range r.Cells {
				cells[i] = flattenBreaks(w.blocks(c.Blocks))
			}
			lines = append(lines, strings.Join(cells, "  "))
		}
		return strings.Join(lines, "\n")
	case ir.Div:
		return w.blocks(v.Blocks)
	}
	return ""
}

func (w *plain) list(items [][]ir.Block, marker func(int) string) string {
	rendered := make([]string, len(items))
	for i, item := range items {
		m := marker(i)
		var parts []string
		for _, b := range item {
			parts = append(parts, w.block(b))
		}
		rendered[i] = m + indentRest(strings.Join(parts, "\n"), strings.Repeat(" ", len(m)))
	}
	return strings.Join(rendered, "\n")
}

func (w *plain) inlines(ns []ir.Inline) string {
	var b strings.Builder
	for _, n := range ns {
		switch v := n.(type) {
		case ir.Str:
			b.WriteString(v.Text)
		case ir.Space:
			b.WriteString(" ")
		case ir.SoftBreak, ir.LineBreak:
			b.WriteString("\n")
		case ir.Strong:
			b.WriteString(w.inlines(v.Content))
		case ir.Emph:
			b.WriteString(w.inlines(v.Content))
		case ir.Underline:
			b.WriteString(w.inlines(v.Content))
		case ir.Strikeout:
			b.WriteString(w.inlines(v.Content))
		case ir.Code:
			b.WriteString(v.Text)
		case ir.Math:
			b.WriteString(v.Expr)
		case ir.Link:
			b.WriteString(w.inlines(v.Content))
		case ir.Image:
			b.WriteString(w.inlines(v.Alt))
		case ir.Note:
			w.notes = append(w.notes, w.blocks(v.Blocks))
			fmt.Fprintf(&b, "[%d]", len(w.notes))
		case ir.RawInline:
		}
	}
	return b.String()
}
