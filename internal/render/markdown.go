// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/n2y/internal/ir"
)

const (
	bulletMarker   = "-   "
	horizontalRule = "------------------------------------------------------------------------"
	checkedBox     = "☒"
	uncheckedBox   = "☐"
)

// markdown writes gfm or pandoc-flavored markdown. The two differ in how
// underline and task items are written.
type markdown struct {
	gfm   bool
	opts  options
	notes []string
}

func newMarkdown(gfm bool, opts options) *markdown {
	return &markdown{gfm: gfm, opts: opts}
}

func (w *markdown) document(doc ir.Document) (string, error) {
	body, err := w.blocks(doc.Blocks)
	if err != nil {
		return "", err
	}
	if len(w.notes) > 0 && !w.opts.noFootnotes {
		var defs []string
		for i, n := range w.notes {
			marker := fmt.Sprintf("[^%d]: ", i+1)
			defs = append(defs, marker+indentRest(n, "    "))
		}
		body += "\n\n" + strings.Join(defs, "\n\n")
	}
	if body == "" {
		return "", nil
	}
	return body + "\n", nil
}

func (w *markdown) blocks(bs []ir.Block) (string, error) {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		s, err := w.block(b)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func (w *markdown) block(b ir.Block) (string, error) {
	switch v := b.(type) {
	case ir.Para:
		return w.inlines(v.Inlines), nil
	case ir.Plain:
		return w.inlines(v.Inlines), nil
	case ir.Header:
		return strings.Repeat("#", v.Level) + " " + flattenBreaks(w.inlines(v.Inlines)), nil
	case ir.CodeBlock:
		fence := codeFence(v.Text)
		open := fence
		if v.Language != "" {
			open += " " + v.Language
		}
		return open + "\n" + v.Text + "\n" + fence, nil
	case ir.RawBlock:
		if w.acceptsRaw(v.Format) {
			return v.Text, nil
		}
		return "", nil
	case ir.BlockQuote:
		inner, err := w.blocks(v.Blocks)
		if err != nil {
			return "", err
		}
		return prefixLines(inner, "> ", ">"), nil
	case ir.BulletList:
		return w.list(v.Items, func(int) string { return bulletMarker })
	case ir.OrderedList:
		start := v.Start
		if start == 0 {
			start = 1
		}
		return w.list(v.Items, func(i int) string { return orderedMarker(start + i) })
	case ir.HorizontalRule:
		return horizontalRule, nil
	case ir.Table:
		return w.table(v)
	case ir.Div:
		return w.blocks(v.Blocks)
	}
	return "", &StructureError{Format: w.format(), Node: b, Reason: "unknown block"}
}

func (w *markdown) format() string {
	if w.gfm {
		return "gfm"
	}
	return "markdown"
}

func (w *markdown) acceptsRaw(format string) bool {
	switch format {
	case "markdown", "html", "html5":
		return true
	case "gfm", "commonmark":
		return w.gfm
	}
	return false
}

func (w *markdown) list(items [][]ir.Block, marker func(int) string) (string, error) {
	tight := true
	for _, item := range items {
		if len(item) > 0 {
			if _, ok := item[0].(ir.Plain); !ok {
				tight = false
			}
		}
	}

	rendered := make([]string, 0, len(items))
	for i, item := range items {
		m := marker(i)
		if w.gfm {
			item = taskItem(item)
		}
		body, err := w.itemBody(item)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, m+indentRest(body, strings.Repeat(" ", len(m))))
	}
	sep := "\n\n"
	if tight {
		sep = "\n"
	}
	return strings.Join(rendered, sep), nil
}

// itemBody joins an item's blocks. A Plain block is followed by a single
// newline so nested lists stay tight.
func (w *markdown) itemBody(item []ir.Block) (string, error) {
	var b strings.Builder
	for i, blk := range item {
		s, err := w.block(blk)
		if err != nil {
			return "", err
		}
		if i > 0 {
			if _, ok := item[i-1].(ir.Plain); ok {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// taskItem replaces a leading ☒/☐ with a gfm task marker.
func taskItem(item []ir.Block) []ir.Block {
	if len(item) == 0 {
		return item
	}
	var inlines []ir.Inline
	switch v := item[0].(type) {
	case ir.Plain:
		inlines = v.Inlines
	case ir.Para:
		inlines = v.Inlines
	default:
		return item
	}
	if len(inlines) == 0 {
		return item
	}
	s, ok := inlines[0].(ir.Str)
	if !ok || (s.Text != checkedBox && s.Text != uncheckedBox) {
		return item
	}
	box := "[ ]"
	if s.Text == checkedBox {
		box = "[x]"
	}
	rest := append([]ir.Inline{ir.RawInline{Format: "markdown", Text: box}}, inlines[1:]...)
	out := append([]ir.Block{}, item...)
	switch item[0].(type) {
	case ir.Plain:
		out[0] = ir.Plain{Inlines: rest}
	case ir.Para:
		out[0] = ir.Para{Inlines: rest}
	}
	return out
}

func (w *markdown) table(t ir.Table) (string, error) {
	width := len(t.Columns)
	for _, r := range append(append([]ir.Row{}, t.Head...), t.Body...) {
		if len(r.Cells) > width {
			width = len(r.Cells)
		}
	}
	if width == 0 {
		return "", nil
	}

	render := func(rows []ir.Row) ([][]string, error) {
		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			cells := make([]string, width)
			for i, c := range r.Cells {
				s, err := w.cell(c)
				if err != nil {
					return nil, err
				}
				cells[i] = s
			}
			out = append(out, cells)
		}
		return out, nil
	}

	head, err := render(t.Head)
	if err != nil {
		return "", err
	}
	body, err := render(t.Body)
	if err != nil {
		return "", err
	}
	if len(head) == 0 {
		head = [][]string{make([]string, width)}
	}

	widths := make([]int, width)
	for i := range widths {
		widths[i] = 3
	}
	for _, r := range append(append([][]string{}, head...), body...) {
		for i, c := range r {
			if n := len([]rune(c)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("|")
		for i, c := range cells {
			b.WriteString(" ")
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[i]-len([]rune(c))))
			b.WriteString(" |")
		}
		return b.String()
	}

	var lines []string
	for _, r := range head[:1] {
		lines = append(lines, line(r))
	}
	var sep strings.Builder
	sep.WriteString("|")
	for i := range widths {
		sep.WriteString(strings.Repeat("-", widths[i]+2))
		sep.WriteString("|")
	}
	lines = append(lines, sep.String())
	// pipe tables have exactly one header row; extra head rows join the body
	for _, r := range head[1:] {
		lines = append(lines, line(r))
	}
	for _, r := range body {
		lines = append(lines, line(r))
	}
	return strings.Join(lines, "\n"), nil
}

func (w *markdown) cell(c ir.Cell) (string, error) {
	parts := make([]string, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		switch v := b.(type) {
		case ir.Plain:
			parts = append(parts, w.cellInlines(v.Inlines))
		case ir.Para:
			parts = append(parts, w.cellInlines(v.Inlines))
		default:
			s, err := w.block(b)
			if err != nil {
				return "", err
			}
			parts = append(parts, strings.ReplaceAll(s, "\n", " "))
		}
	}
	return strings.ReplaceAll(strings.Join(parts, "<br>"), "|", `\|`), nil
}

func (w *markdown) cellInlines(ns []ir.Inline) string {
	out := make([]ir.Inline, len(ns))
	for i, n := range ns {
		switch n.(type) {
		case ir.SoftBreak, ir.LineBreak:
			out[i] = ir.RawInline{Format: "html", Text: "<br>"}
		default:
			out[i] = n
		}
	}
	return w.inlines(out)
}

func (w *markdown) inlines(ns []ir.Inline) string {
	var b strings.Builder
	for _, n := range ns {
		w.inline(&b, n)
	}
	return b.String()
}

func (w *markdown) inline(b *strings.Builder, n ir.Inline) {
	switch v := n.(type) {
	case ir.Str:
		b.WriteString(escapeMarkdown(v.Text))
	case ir.Space:
		b.WriteString(" ")
	case ir.SoftBreak:
		b.WriteString("\n")
	case ir.LineBreak:
		b.WriteString("\\\n")
	case ir.Strong:
		b.WriteString("**" + w.inlines(v.Content) + "**")
	case ir.Emph:
		b.WriteString("*" + w.inlines(v.Content) + "*")
	case ir.Underline:
		if w.gfm {
			b.WriteString("<u>" + w.inlines(v.Content) + "</u>")
		} else {
			b.WriteString("[" + w.inlines(v.Content) + "]{.underline}")
		}
	case ir.Strikeout:
		b.WriteString("~~" + w.inlines(v.Content) + "~~")
	case ir.Code:
		b.WriteString(inlineCode(v.Text))
	case ir.Math:
		if v.Display {
			b.WriteString("$$" + v.Expr + "$$")
		} else {
			b.WriteString("$" + v.Expr + "$")
		}
	case ir.Link:
		if isAutolink(v) {
			b.WriteString("<" + v.URL + ">")
			return
		}
		b.WriteString("[" + w.inlines(v.Content) + "](" + v.URL)
		if v.Title != "" {
			b.WriteString(" " + strconv.Quote(v.Title))
		}
		b.WriteString(")")
	case ir.Image:
		b.WriteString("![" + w.inlines(v.Alt) + "](" + v.URL)
		if v.Title != "" {
			b.WriteString(" " + strconv.Quote(v.Title))
		}
		b.WriteString(")")
	case ir.Note:
		body, err := w.blocks(v.Blocks)
		if err != nil {
			body = ""
		}
		w.notes = append(w.notes, body)
		fmt.Fprintf(b, "[^%d]", len(w.notes))
	case ir.RawInline:
		if w.acceptsRaw(v.Format) {
			b.WriteString(v.Text)
		}
	}
}

func isAutolink(l ir.Link) bool {
	if l.Title != "" || len(l.Content) != 1 {
		return false
	}
	s, ok := l.Content[0].(ir.Str)
	return ok && s.Text == l.URL && strings.Contains(l.URL, ":")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`$`, `\$`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func inlineCode(text string) string {
	fence := "`"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") {
		return fence + " " + text + " " + fence
	}
	return fence + text + fence
}

func codeFence(text string) string {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	return fence
}

func orderedMarker(n int) string {
	m := strconv.Itoa(n) + "."
	if len(m) < 3 {
		return m + strings.Repeat(" ", 4-len(m))
	}
	return m + " "
}

// indentRest indents every non-empty line after the first.
func indentRest(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func prefixLines(s, prefix, emptyPrefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = emptyPrefix
		} else {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func flattenBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
