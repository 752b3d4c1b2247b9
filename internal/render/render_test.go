// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/n2y/internal/ir"
)

func doc(blocks ...ir.Block) ir.Document { return ir.Document{Blocks: blocks} }

func para(ns ...ir.Inline) ir.Para { return ir.Para{Inlines: ns} }

func str(s string) ir.Str { return ir.Str{Text: s} }

func gfm(t *testing.T, blocks ...ir.Block) string {
	t.Helper()
	out, err := Render(doc(blocks...), "gfm", nil)
	require.NoError(t, err)
	return out
}

func TestMarkdown_Inlines(t *testing.T) {
	tests := []struct {
		name string
		in   []ir.Inline
		want string
	}{
		{
			"bold word",
			[]ir.Inline{str("A"), ir.Space{}, ir.Strong{Content: []ir.Inline{str("bold")}}, ir.Space{}, str("word.")},
			"A **bold** word.\n",
		},
		{
			"bold italic",
			[]ir.Inline{str("A"), ir.Space{}, ir.Emph{Content: []ir.Inline{ir.Strong{Content: []ir.Inline{str("bold-italic")}}}}, ir.Space{}, str("word.")},
			"A ***bold-italic*** word.\n",
		},
		{
			"strikeout",
			[]ir.Inline{str("A"), ir.Space{}, ir.Strikeout{Content: []ir.Inline{str("deleted")}}, ir.Space{}, str("word.")},
			"A ~~deleted~~ word.\n",
		},
		{
			"code",
			[]ir.Inline{str("A"), ir.Space{}, ir.Code{Text: "code"}, ir.Space{}, str("word.")},
			"A `code` word.\n",
		},
		{
			"code with backtick",
			[]ir.Inline{ir.Code{Text: "a`b"}},
			"``a`b``\n",
		},
		{
			"link around bold",
			[]ir.Inline{str("This"), ir.Space{}, ir.Link{Content: []ir.Inline{ir.Strong{Content: []ir.Inline{str("link")}}}, URL: "https://example.com"}, str(".")},
			"This [**link**](https://example.com).\n",
		},
		{
			"autolink",
			[]ir.Inline{ir.Link{Content: []ir.Inline{str("https://innolitics.com")}, URL: "https://innolitics.com"}},
			"<https://innolitics.com>\n",
		},
		{
			"inline math",
			[]ir.Inline{str("("), ir.Math{Expr: `x^2`}, str(")")},
			"($x^2$)\n",
		},
		{
			"display math",
			[]ir.Inline{ir.Math{Display: true, Expr: `\frac{a}{b}`}},
			"$$\\frac{a}{b}$$\n",
		},
		{
			"escapes",
			[]ir.Inline{str("snake_case*[x]")},
			"snake\\_case\\*\\[x\\]\n",
		},
		{
			"image",
			[]ir.Inline{ir.Image{Alt: []ir.Inline{str("test"), ir.Space{}, str("image")}, URL: "image.png", Figure: true}},
			"![test image](image.png)\n",
		},
		{
			"underline gfm",
			[]ir.Inline{ir.Underline{Content: []ir.Inline{str("u")}}},
			"<u>u</u>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gfm(t, para(tt.in...)))
		})
	}
}

func TestMarkdown_UnderlinePandocFlavor(t *testing.T) {
	out, err := Render(doc(para(ir.Underline{Content: []ir.Inline{str("u")}})), "markdown", nil)
	require.NoError(t, err)
	assert.Equal(t, "[u]{.underline}\n", out)
}

func TestMarkdown_Blocks(t *testing.T) {
	tests := []struct {
		name   string
		blocks []ir.Block
		want   string
	}{
		{
			"headings",
			[]ir.Block{ir.Header{Level: 1, Inlines: ir.Text("Heading One")}, ir.Header{Level: 3, Inlines: ir.Text("Three")}},
			"# Heading One\n\n### Three\n",
		},
		{
			"paragraph then bullet list",
			[]ir.Block{
				para(ir.Text("Bulleted List")...),
				ir.BulletList{Items: [][]ir.Block{{ir.Plain{Inlines: ir.Text("Item One")}}, {ir.Plain{Inlines: ir.Text("Item Two")}}}},
			},
			"Bulleted List\n\n-   Item One\n-   Item Two\n",
		},
		{
			"numbered list",
			[]ir.Block{ir.OrderedList{Start: 1, Items: [][]ir.Block{{ir.Plain{Inlines: ir.Text("Item One")}}, {ir.Plain{Inlines: ir.Text("Item Two")}}}}},
			"1.  Item One\n2.  Item Two\n",
		},
		{
			"task list",
			[]ir.Block{ir.BulletList{Items: [][]ir.Block{
				{ir.Plain{Inlines: ir.Text("☒ Task One")}},
				{ir.Plain{Inlines: ir.Text("☐ Task Two")}},
			}}},
			"-   [x] Task One\n-   [ ] Task Two\n",
		},
		{
			"toggle style item",
			[]ir.Block{ir.BulletList{Items: [][]ir.Block{{para(ir.Text("Toggle Header")...), para(ir.Text("Toggle Content")...)}}}},
			"-   Toggle Header\n\n    Toggle Content\n",
		},
		{
			"nested ordered",
			[]ir.Block{ir.OrderedList{Start: 1, Items: [][]ir.Block{{
				ir.Plain{Inlines: []ir.Inline{ir.Link{Content: ir.Text("Foo"), URL: "#foo"}}},
				ir.OrderedList{Start: 1, Items: [][]ir.Block{{ir.Plain{Inlines: []ir.Inline{ir.Link{Content: ir.Text("Bar"), URL: "#bar"}}}}}},
			}}}},
			"1.  [Foo](#foo)\n    1.  [Bar](#bar)\n",
		},
		{
			"code block",
			[]ir.Block{ir.CodeBlock{Language: "javascript", Text: "const a = 3"}},
			"``` javascript\nconst a = 3\n```\n",
		},
		{
			"quote",
			[]ir.Block{ir.BlockQuote{Blocks: []ir.Block{para(ir.Text("a")...), para(ir.Text("b")...)}}},
			"> a\n>\n> b\n",
		},
		{
			"equation",
			[]ir.Block{para(ir.Math{Display: true, Expr: "E=mc^2"})},
			"$$E=mc^2$$\n",
		},
		{
			"raw block for another format is dropped",
			[]ir.Block{ir.RawBlock{Format: "latex", Text: `\newpage`}, para(str("x"))},
			"x\n",
		},
		{
			"raw html passes through",
			[]ir.Block{ir.RawBlock{Format: "html", Text: "<br/>"}},
			"<br/>\n",
		},
		{
			"empty document",
			nil,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gfm(t, tt.blocks...))
		})
	}
}

func TestMarkdown_HorizontalRule(t *testing.T) {
	assert.Regexp(t, `^-+\n$`, gfm(t, ir.HorizontalRule{}))
}

func TestMarkdown_Table(t *testing.T) {
	cell := func(s string) ir.Cell { return ir.Cell{Blocks: []ir.Block{ir.Plain{Inlines: ir.Text(s)}}} }
	row := func(cs ...string) ir.Row {
		r := ir.Row{}
		for _, c := range cs {
			r.Cells = append(r.Cells, cell(c))
		}
		return r
	}
	cols := []ir.ColSpec{{}, {}}

	withHead := ir.Table{Columns: cols, Head: []ir.Row{row("header1", "header2")}, Body: []ir.Row{row("one", "two")}}
	assert.Equal(t,
		"| header1 | header2 |\n|---------|---------|\n| one     | two     |\n",
		gfm(t, withHead))

	headless := ir.Table{Columns: cols, Body: []ir.Row{row("a", "b")}}
	assert.Equal(t,
		"|     |     |\n|-----|-----|\n| a   | b   |\n",
		gfm(t, headless))

	breaks := ir.Table{Columns: cols, Body: []ir.Row{{Cells: []ir.Cell{
		{Blocks: []ir.Block{ir.Plain{Inlines: []ir.Inline{str("three"), ir.LineBreak{}, str("3.5")}}}},
		cell("a|b"),
	}}}}
	assert.Contains(t, gfm(t, breaks), "| three<br>3.5 | a\\|b |")
}

func TestMarkdown_Footnotes(t *testing.T) {
	note := ir.Note{Blocks: []ir.Block{para(ir.Text("The note.")...)}}
	out := gfm(t, para(str("Claim"), note, str(".")))
	assert.Equal(t, "Claim[^1].\n\n[^1]: The note.\n", out)

	out, err := Render(doc(para(str("Claim"), note)), "gfm", []string{OptNoFootnotes})
	require.NoError(t, err)
	assert.Equal(t, "Claim[^1]\n", out)
}

func TestPlain(t *testing.T) {
	d := doc(
		ir.Header{Level: 1, Inlines: ir.Text("Title")},
		para(str("A"), ir.Space{}, ir.Strong{Content: []ir.Inline{str("bold")}}, ir.Space{}, ir.Link{Content: ir.Text("link"), URL: "x"}, str(".")),
		ir.BulletList{Items: [][]ir.Block{{ir.Plain{Inlines: ir.Text("item")}}}},
	)
	out, err := Render(d, "plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nA bold link.\n\n-   item\n", out)
}

func TestHTML(t *testing.T) {
	d := doc(
		ir.Header{Level: 2, ID: "intro", Inlines: ir.Text("Intro")},
		para(str("a<b"), ir.Space{}, ir.Emph{Content: []ir.Inline{str("em")}}, ir.RawInline{Format: "html", Text: "<kbd>K</kbd>"}),
		ir.CodeBlock{Language: "go", Text: "x := 1"},
	)
	out, err := Render(d, "html", nil)
	require.NoError(t, err)
	assert.Equal(t,
		"<h2 id=\"intro\">Intro</h2>\n<p>a&lt;b <em>em</em><kbd>K</kbd></p>\n<pre><code class=\"language-go\">x := 1</code></pre>\n",
		out)

	d.Meta = map[string]any{"title": "Doc"}
	out, err = Render(d, "html", []string{OptStandalone})
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Doc</title>")
}

func TestJSON(t *testing.T) {
	out, err := Render(doc(para(str("x"))), "json", nil)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Document", got["t"])
	blocks := got["blocks"].([]any)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Para", blocks[0].(map[string]any)["t"])
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(doc(para(str("x"))), "docx", nil)
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = Render(doc(ir.Header{Level: 0, Inlines: ir.Text("bad")}), "gfm", nil)
	var se *StructureError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "header level 0")

	_, err = Render(doc(ir.Table{Columns: []ir.ColSpec{{}}, Body: []ir.Row{{Cells: []ir.Cell{{}, {}}}}}), "html", nil)
	require.ErrorAs(t, err, &se)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "md", Extension("gfm+tex_math_dollars"))
	assert.Equal(t, "html", Extension("html"))
	assert.Equal(t, "docx", Extension("docx"))
	assert.True(t, IsMarkdown("markdown"))
	assert.False(t, IsMarkdown("html"))
}
