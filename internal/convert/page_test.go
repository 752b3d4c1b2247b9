// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
	nt "github.com/pdiddy/n2y/internal/notion/notiontest"
	"github.com/pdiddy/n2y/internal/render"
)

func heading(level int, text string) notion.Block {
	return nt.TextBlock([]string{"", "heading_1", "heading_2", "heading_3"}[level], nt.Text(text), false)
}

func (h *harness) page(t *testing.T, title string, props map[string]notion.PropertyValue, body ...notion.Block) *Page {
	t.Helper()
	raw := nt.Page(title, props)
	h.api.AddPage(raw, body...)
	p, err := h.conv.GetPage(context.Background(), raw.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestPage_ToTree(t *testing.T) {
	h := newHarness(t)
	p := h.page(t, "My Page", nil, nt.Paragraph("Hello"))

	doc, err := p.ToTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "My Page", doc.Meta["title"])
	assert.Equal(t, []ir.Block{ir.Para{Inlines: []ir.Inline{s("Hello")}}}, doc.Blocks)
	assert.Equal(t, "My Page", p.Title().PlainText())
	assert.Equal(t, "title", p.TitleProperty())
}

func TestPage_TableOfContents(t *testing.T) {
	h := newHarness(t)
	p := h.page(t, "Doc", nil,
		nt.Block("table_of_contents", map[string]string{"color": "default"}, false),
		heading(1, "Foo"),
		heading(2, "Bar"),
		heading(3, "Deep"),
		heading(1, "Baz"),
	)
	doc, err := p.ToTree(context.Background())
	require.NoError(t, err)
	out, err := render.Render(doc, "gfm", nil)
	require.NoError(t, err)
	assert.Equal(t,
		"1.  [Foo](#foo)\n    1.  [Bar](#bar)\n        1.  [Deep](#deep)\n2.  [Baz](#baz)\n\n"+
			"# Foo\n\n## Bar\n\n### Deep\n\n# Baz\n",
		out)
}

func TestPage_TableOfContentsInsideToggle(t *testing.T) {
	h := newHarness(t)
	toggle := nt.TextBlock("toggle", nt.Text("Contents"), true)
	h.api.AddChildren(toggle.ID, nt.Block("table_of_contents", map[string]string{"color": "default"}, false))
	p := h.page(t, "Doc", nil, toggle, heading(1, "Foo"), heading(2, "Bar"))

	doc, err := p.ToTree(context.Background())
	require.NoError(t, err)
	out, err := render.Render(doc, "gfm", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "[Foo](#foo)")
	assert.Contains(t, out, "[Bar](#bar)")
}

func TestTableOfContents_OutOfOrderHeadings(t *testing.T) {
	tocOf := func(t *testing.T, h *harness, headings ...notion.Block) ir.OrderedList {
		t.Helper()
		body := append([]notion.Block{nt.Block("table_of_contents", map[string]string{"color": "default"}, false)}, headings...)
		doc, err := h.page(t, "Doc", nil, body...).ToTree(context.Background())
		require.NoError(t, err)
		toc, ok := doc.Blocks[0].(ir.OrderedList)
		require.True(t, ok)
		return toc
	}
	title := func(item []ir.Block) string { return ir.Stringify(item[0].(ir.Plain).Inlines) }

	t.Run("shallower than first", func(t *testing.T) {
		h := newHarness(t)
		toc := tocOf(t, h, heading(2, "First"), heading(1, "Too Shallow"), heading(2, "Second"))
		require.Len(t, toc.Items, 2)
		assert.Equal(t, "First", title(toc.Items[0]))
		assert.Equal(t, "Second", title(toc.Items[1]))
		assert.Contains(t, h.logs.String(), "shallower than the first heading")
	})

	t.Run("skipped level", func(t *testing.T) {
		h := newHarness(t)
		toc := tocOf(t, h, heading(1, "Top"), heading(3, "Skipped"), heading(2, "Sub"))
		require.Len(t, toc.Items, 1)
		require.Len(t, toc.Items[0], 2)
		sub := toc.Items[0][1].(ir.OrderedList)
		require.Len(t, sub.Items, 1)
		assert.Equal(t, "Sub", title(sub.Items[0]))
		assert.Contains(t, h.logs.String(), "skips a level")
	})
}

func TestPage_Children(t *testing.T) {
	h := newHarness(t)
	child := nt.Page("Child", nil)
	h.api.AddPage(child)
	db := nt.Database("Nested DB")
	h.api.AddDatabase(db)

	childBlock := nt.Block("child_page", map[string]string{"title": "Child"}, false)
	childBlock.ID = child.ID
	dbBlock := nt.Block("child_database", map[string]string{"title": "Nested DB"}, false)
	dbBlock.ID = db.ID
	toggle := nt.TextBlock("toggle", nt.Text("More"), true)
	h.api.AddChildren(toggle.ID, dbBlock)

	p := h.page(t, "Parent", nil, nt.Paragraph("intro"), childBlock, toggle)
	pages, dbs, err := p.Children(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Len(t, dbs, 1)
	assert.Equal(t, "Child", pages[0].Title().PlainText())
	assert.Equal(t, "Nested DB", dbs[0].Title.PlainText())
}

func TestPage_PropertiesToValues(t *testing.T) {
	h := newHarness(t)
	num := 3.5
	p := h.page(t, "Row", map[string]notion.PropertyValue{
		"Notes":   nt.RichTextValue(nt.Span("Some "), nt.Span("bold", nt.Bold)),
		"Count":   nt.PropertyValue("number", num),
		"Whole":   nt.PropertyValue("number", 4),
		"Empty":   nt.PropertyValue("number", nil),
		"Stage":   nt.PropertyValue("select", map[string]string{"name": "Draft", "color": "red"}),
		"Status":  nt.PropertyValue("status", map[string]string{"name": "Done"}),
		"Tags":    nt.PropertyValue("multi_select", []map[string]string{{"name": "a"}, {"name": "b"}}),
		"When":    nt.DateValue("2022-01-01", ""),
		"Span":    nt.DateValue("2022-01-01", "2022-01-03"),
		"NoDate":  nt.DateValue("", ""),
		"Done":    nt.PropertyValue("checkbox", true),
		"Site":    nt.PropertyValue("url", "https://example.com"),
		"Who":     nt.PropertyValue("people", []notion.User{nt.User("Ann"), nt.User("Bo")}),
		"Docs":    nt.PropertyValue("files", []notion.File{nt.ExternalFile("https://example.com/a.pdf")}),
		"Score":   nt.PropertyValue("formula", map[string]any{"type": "number", "number": 7}),
		"Label":   nt.PropertyValue("formula", map[string]any{"type": "string", "string": "hi"}),
		"Ticket":  nt.PropertyValue("unique_id", map[string]any{"prefix": "TASK", "number": 12}),
		"Total":   nt.PropertyValue("rollup", map[string]any{"type": "number", "number": 10, "function": "sum"}),
		"Authors": nt.PropertyValue("rollup", map[string]any{"type": "array", "function": "show_original", "array": []any{nt.TitleValue("X")}}),
	})

	values, err := p.PropertiesToValues(context.Background(), "gfm", nil)
	require.NoError(t, err)
	assert.Equal(t, "Row", values["title"])
	assert.Equal(t, "Some **bold**", values["Notes"])
	assert.Equal(t, 3.5, values["Count"])
	assert.Equal(t, int64(4), values["Whole"])
	assert.Nil(t, values["Empty"])
	assert.Equal(t, "Draft", values["Stage"])
	assert.Equal(t, "Done", values["Status"])
	assert.Equal(t, []string{"a", "b"}, values["Tags"])
	assert.Equal(t, "2022-01-01", values["When"])
	assert.Equal(t, []string{"2022-01-01", "2022-01-03"}, values["Span"])
	assert.Nil(t, values["NoDate"])
	assert.Equal(t, true, values["Done"])
	assert.Equal(t, "https://example.com", values["Site"])
	assert.Equal(t, []string{"Ann", "Bo"}, values["Who"])
	assert.Equal(t, []string{"https://example.com/a.pdf"}, values["Docs"])
	assert.Equal(t, int64(7), values["Score"])
	assert.Equal(t, "hi", values["Label"])
	assert.Equal(t, "TASK-12", values["Ticket"])
	assert.Equal(t, int64(10), values["Total"])
	assert.Equal(t, []any{"X"}, values["Authors"])

	plain, err := p.PropertiesToValues(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Some bold", plain["Notes"])
}

func TestRelation_FetchesMoreThanInline(t *testing.T) {
	h := newHarness(t)
	inline := make([]map[string]string, 25)
	var items []notion.PropertyItem
	var want []string
	for i := range 31 {
		id := nt.ID()
		want = append(want, id)
		if i < 25 {
			inline[i] = map[string]string{"id": id}
		}
		item := notion.PropertyItem{Object: "property_item", ID: "rel", Tagged: notion.Tagged{Type: "relation"}}
		item.Data = []byte(`{"id":"` + id + `"}`)
		items = append(items, item)
	}
	rel := nt.PropertyValue("relation", inline)
	rel.ID = "rel"
	rel.HasMore = true

	raw := nt.Page("Has Relations", map[string]notion.PropertyValue{"Related": rel})
	h.api.AddPage(raw)
	h.api.AddPropertyItems(raw.ID, "rel", items...)

	p, err := h.conv.GetPage(context.Background(), raw.ID)
	require.NoError(t, err)
	v, err := p.Properties["Related"].ToValue(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, want, v)
	assert.Len(t, v, 31)
	assert.Equal(t, 1, h.api.Calls["GetPagePropertyItems"])
}

func TestRelation_InlineOnly(t *testing.T) {
	h := newHarness(t)
	id := nt.ID()
	p := h.page(t, "Row", map[string]notion.PropertyValue{
		"Related": nt.PropertyValue("relation", []map[string]string{{"id": id}}),
	})
	v, err := p.Properties["Related"].ToValue(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, v)
	assert.Zero(t, h.api.Calls["GetPagePropertyItems"])
}

func TestRelation_HasMoreWithoutPage(t *testing.T) {
	h := newHarness(t)
	id := nt.ID()
	rel := nt.PropertyValue("relation", []map[string]string{{"id": id}})
	rel.HasMore = true

	pv, err := h.conv.WrapPropertyValue(context.Background(), "Related", rel, nil)
	require.NoError(t, err)
	v, err := pv.ToValue(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, v)
	assert.Zero(t, h.api.Calls["GetPagePropertyItems"])
	assert.Contains(t, h.logs.String(), "keeping the partial list")
}

func TestWrapPropertyValue_UnknownType(t *testing.T) {
	h := newHarness(t)
	_, err := h.conv.WrapPropertyValue(context.Background(), "X", nt.PropertyValue("hologram", map[string]any{}), nil)
	assert.ErrorContains(t, err, "hologram")
}
