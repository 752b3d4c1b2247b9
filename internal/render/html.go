// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/n2y/internal/ir"
)

// htmlWriter builds an html.Node tree and lets x/net/html serialize it, so
// escaping and raw HTML fragments are handled by the parser's own rules.
type htmlWriter struct {
	opts  options
	notes [][]ir.Block
}

func renderHTML(doc ir.Document, opts options) (string, error) {
	w := &htmlWriter{opts: opts}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	w.blocks(body, doc.Blocks)
	w.footnotes(body)

	var buf bytes.Buffer
	if opts.standalone {
		root := &html.Node{Type: html.DocumentNode}
		root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
		htmlEl := element(atom.Html)
		head := element(atom.Head)
		meta := element(atom.Meta)
		meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
		head.AppendChild(meta)
		if title, ok := doc.Meta["title"]; ok {
			t := element(atom.Title)
			t.AppendChild(text(fmt.Sprint(title)))
			head.AppendChild(t)
		}
		htmlEl.AppendChild(head)
		htmlEl.AppendChild(body)
		root.AppendChild(htmlEl)
		if err := html.Render(&buf, root); err != nil {
			return "", fmt.Errorf("writing html: %w", err)
		}
		buf.WriteString("\n")
		return buf.String(), nil
	}

	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("writing html: %w", err)
		}
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(k, v string) html.Attribute { return html.Attribute{Key: k, Val: v} }

func (w *htmlWriter) blocks(parent *html.Node, bs []ir.Block) {
	for _, b := range bs {
		w.block(parent, b)
	}
}

func (w *htmlWriter) block(parent *html.Node, b ir.Block) {
	switch v := b.(type) {
	case ir.Para:
		p := element(atom.P)
		w.inlines(p, v.Inlines)
		parent.AppendChild(p)
	case ir.Plain:
		w.inlines(parent, v.Inlines)
	case ir.Header:
		h := element(headerAtom(v.Level))
		if v.ID != "" {
			h.Attr = append(h.Attr, attr("id", v.ID))
		}
		w.inlines(h, v.Inlines)
		parent.AppendChild(h)
	case ir.CodeBlock:
		pre := element(atom.Pre)
		code := element(atom.Code)
		if v.Language != "" {
			code.Attr = append(code.Attr, attr("class", "language-"+v.Language))
		}
		code.AppendChild(text(v.Text))
		pre.AppendChild(code)
		parent.AppendChild(pre)
	case ir.RawBlock:
		if v.Format == "html" || v.Format == "html5" {
			w.raw(parent, v.Text)
		}
	case ir.BlockQuote:
		q := element(atom.Blockquote)
		w.blocks(q, v.Blocks)
		parent.AppendChild(q)
	case ir.BulletList:
		ul := element(atom.Ul)
		w.items(ul, v.Items)
		parent.AppendChild(ul)
	case ir.OrderedList:
		ol := element(atom.Ol)
		if v.Start > 1 {
			ol.Attr = append(ol.Attr, attr("start", strconv.Itoa(v.Start)))
		}
		w.items(ol, v.Items)
		parent.AppendChild(ol)
	case ir.HorizontalRule:
		parent.AppendChild(element(atom.Hr))
	case ir.Table:
		w.table(parent, v)
	case ir.Div:
		div := element(atom.Div)
		if len(v.Classes) > 0 {
			div.Attr = append(div.Attr, attr("class", strings.Join(v.Classes, " ")))
		}
		w.blocks(div, v.Blocks)
		parent.AppendChild(div)
	}
}

func headerAtom(level int) atom.Atom {
	return [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}[level-1]
}

func (w *htmlWriter) items(list *html.Node, items [][]ir.Block) {
	for _, item := range items {
		li := element(atom.Li)
		w.blocks(li, item)
		list.AppendChild(li)
	}
}

func (w *htmlWriter) table(parent *html.Node, t ir.Table) {
	table := element(atom.Table)
	if len(t.Caption) > 0 {
		c := element(atom.Caption)
		w.inlines(c, t.Caption)
		table.AppendChild(c)
	}
	if len(t.Head) > 0 {
		thead := element(atom.Thead)
		for _, r := range t.Head {
			thead.AppendChild(w.row(r, -1))
		}
		table.AppendChild(thead)
	}
	tbody := element(atom.Tbody)
	for _, r := range t.Body {
		tbody.AppendChild(w.row(r, t.RowHeadColumns))
	}
	table.AppendChild(tbody)
	parent.AppendChild(table)
}

// row writes one table row. headCols < 0 makes every cell a header cell.
func (w *htmlWriter) row(r ir.Row, headCols int) *html.Node {
	tr := element(atom.Tr)
	for i, c := range r.Cells {
		a := atom.Td
		if headCols < 0 || i < headCols {
			a = atom.Th
		}
		cell := element(a)
		w.blocks(cell, c.Blocks)
		tr.AppendChild(cell)
	}
	return tr
}

func (w *htmlWriter) inlines(parent *html.Node, ns []ir.Inline) {
	for _, n := range ns {
		w.inline(parent, n)
	}
}

func (w *htmlWriter) wrap(parent *html.Node, a atom.Atom, content []ir.Inline) {
	el := element(a)
	w.inlines(el, content)
	parent.AppendChild(el)
}

func (w *htmlWriter) inline(parent *html.Node, n ir.Inline) {
	switch v := n.(type) {
	case ir.Str:
		parent.AppendChild(text(v.Text))
	case ir.Space:
		parent.AppendChild(text(" "))
	case ir.SoftBreak:
		parent.AppendChild(text("\n"))
	case ir.LineBreak:
		parent.AppendChild(element(atom.Br))
	case ir.Strong:
		w.wrap(parent, atom.Strong, v.Content)
	case ir.Emph:
		w.wrap(parent, atom.Em, v.Content)
	case ir.Underline:
		w.wrap(parent, atom.U, v.Content)
	case ir.Strikeout:
		w.wrap(parent, atom.Del, v.Content)
	case ir.Code:
		c := element(atom.Code)
		c.AppendChild(text(v.Text))
		parent.AppendChild(c)
	case ir.Math:
		span := element(atom.Span)
		if v.Display {
			span.Attr = []html.Attribute{attr("class", "math display")}
			span.AppendChild(text(`\[` + v.Expr + `\]`))
		} else {
			span.Attr = []html.Attribute{attr("class", "math inline")}
			span.AppendChild(text(`\(` + v.Expr + `\)`))
		}
		parent.AppendChild(span)
	case ir.Link:
		a := element(atom.A, attr("href", v.URL))
		if v.Title != "" {
			a.Attr = append(a.Attr, attr("title", v.Title))
		}
		w.inlines(a, v.Content)
		parent.AppendChild(a)
	case ir.Image:
		img := element(atom.Img, attr("src", v.URL), attr("alt", ir.Stringify(v.Alt)))
		if v.Title != "" {
			img.Attr = append(img.Attr, attr("title", v.Title))
		}
		if v.Figure {
			fig := element(atom.Figure)
			fig.AppendChild(img)
			caption := element(atom.Figcaption)
			w.inlines(caption, v.Alt)
			fig.AppendChild(caption)
			parent.AppendChild(fig)
			return
		}
		parent.AppendChild(img)
	case ir.Note:
		w.notes = append(w.notes, v.Blocks)
		n := strconv.Itoa(len(w.notes))
		sup := element(atom.Sup)
		a := element(atom.A, attr("href", "#fn"+n), attr("id", "fnref"+n), attr("class", "footnote-ref"))
		a.AppendChild(text(n))
		sup.AppendChild(a)
		parent.AppendChild(sup)
	case ir.RawInline:
		if v.Format == "html" || v.Format == "html5" {
			w.raw(parent, v.Text)
		}
	}
}

// raw parses an HTML fragment in the context of parent and appends it.
func (w *htmlWriter) raw(parent *html.Node, s string) {
	ctx := &html.Node{Type: html.ElementNode, Data: parent.Data, DataAtom: parent.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		parent.AppendChild(text(s))
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}

func (w *htmlWriter) footnotes(body *html.Node) {
	if len(w.notes) == 0 || w.opts.noFootnotes {
		return
	}
	section := element(atom.Section, attr("class", "footnotes"))
	section.AppendChild(element(atom.Hr))
	ol := element(atom.Ol)
	// notes may themselves contain notes, which append to w.notes
	for i := 0; i < len(w.notes); i++ {
		n := strconv.Itoa(i + 1)
		li := element(atom.Li, attr("id", "fn"+n))
		w.blocks(li, w.notes[i])
		back := element(atom.A, attr("href", "#fnref"+n), attr("class", "footnote-back"))
		back.AppendChild(text("↩"))
		li.AppendChild(back)
		ol.AppendChild(li)
	}
	section.AppendChild(ol)
	body.AppendChild(section)
}
