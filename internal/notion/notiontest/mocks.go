// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notiontest builds raw Notion records for tests and provides an
// in-memory API double.
package notiontest

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/n2y/internal/notion"
)

// ID returns a fresh hyphenated object id.
func ID() string { return uuid.NewString() }

func raw(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("notiontest: marshaling %T: %v", v, err))
	}
	return data
}

// Style is one annotation flag accepted by Span.
type Style string

const (
	Bold          Style = "bold"
	Italic        Style = "italic"
	Strikethrough Style = "strikethrough"
	Underline     Style = "underline"
	Code          Style = "code"
)

// Annotations builds annotation flags from styles.
func Annotations(styles ...Style) notion.Annotations {
	a := notion.Annotations{Color: "default"}
	for _, s := range styles {
		switch s {
		case Bold:
			a.Bold = true
		case Italic:
			a.Italic = true
		case Strikethrough:
			a.Strikethrough = true
		case Underline:
			a.Underline = true
		case Code:
			a.Code = true
		}
	}
	return a
}

// Span builds a text span.
func Span(text string, styles ...Style) notion.RichText {
	return notion.RichText{
		PlainText:   text,
		Annotations: Annotations(styles...),
		Tagged:      notion.Tagged{Type: "text", Data: raw(map[string]any{"content": text, "link": nil})},
	}
}

// Link builds a text span that links to href.
func Link(text, href string, styles ...Style) notion.RichText {
	r := Span(text, styles...)
	r.Href = &href
	r.Data = raw(map[string]any{"content": text, "link": map[string]string{"url": href}})
	return r
}

// Text builds one unstyled span per string.
func Text(texts ...string) []notion.RichText {
	out := make([]notion.RichText, len(texts))
	for i, t := range texts {
		out[i] = Span(t)
	}
	return out
}

// Equation builds an inline equation span.
func Equation(expr string) notion.RichText {
	return notion.RichText{
		PlainText:   expr,
		Annotations: Annotations(),
		Tagged:      notion.Tagged{Type: "equation", Data: raw(map[string]string{"expression": expr})},
	}
}

// Mention builds a mention span showing plain.
func Mention(plain string, m notion.Mention, styles ...Style) notion.RichText {
	return notion.RichText{
		PlainText:   plain,
		Annotations: Annotations(styles...),
		Tagged:      notion.Tagged{Type: "mention", Data: raw(m)},
	}
}

// UserMention builds a user mention payload.
func UserMention(u notion.User) notion.Mention {
	return notion.Mention{Tagged: notion.Tagged{Type: "user", Data: raw(u)}}
}

// PageMention builds a page mention payload.
func PageMention(id string) notion.Mention {
	return notion.Mention{Tagged: notion.Tagged{Type: "page", Data: raw(map[string]string{"id": id})}}
}

// DatabaseMention builds a database mention payload.
func DatabaseMention(id string) notion.Mention {
	return notion.Mention{Tagged: notion.Tagged{Type: "database", Data: raw(map[string]string{"id": id})}}
}

// DateMention builds a date mention payload. An empty end means a single date.
func DateMention(start, end string) notion.Mention {
	return notion.Mention{Tagged: notion.Tagged{Type: "date", Data: raw(dateValue(start, end))}}
}

// LinkPreviewMention builds a link preview mention payload.
func LinkPreviewMention(url string) notion.Mention {
	return notion.Mention{Tagged: notion.Tagged{Type: "link_preview", Data: raw(map[string]string{"url": url})}}
}

// LinkMention builds a rich link mention payload.
func LinkMention(href, title string) notion.Mention {
	return notion.Mention{Tagged: notion.Tagged{Type: "link_mention", Data: raw(map[string]string{"href": href, "title": title})}}
}

func dateValue(start, end string) map[string]any {
	d := map[string]any{"start": start, "end": nil, "time_zone": nil}
	if end != "" {
		d["end"] = end
	}
	return d
}

// User builds a person.
func User(name string) notion.User {
	return notion.User{
		Object: "user", ID: ID(), Type: "person", Name: name,
		Person: &notion.Person{Email: "test@example.com"},
	}
}

// ExternalFile builds an externally hosted file.
func ExternalFile(url string) notion.File {
	return notion.File{Type: "external", External: &notion.FileLink{URL: url}}
}

// HostedFile builds a Notion-hosted file.
func HostedFile(url string) notion.File {
	return notion.File{Type: "file", File: &notion.FileLink{URL: url, ExpiryTime: "2022-03-01T20:05:00.000Z"}}
}

// Block builds a block of type typ with payload data.
func Block(typ string, data any, hasChildren bool) notion.Block {
	by := User("Test")
	return notion.Block{
		Object:         "block",
		ID:             ID(),
		CreatedTime:    "2022-03-01T19:05:00.000Z",
		LastEditedTime: "2022-03-01T19:05:00.000Z",
		CreatedBy:      &by,
		LastEditedBy:   &by,
		HasChildren:    hasChildren,
		Tagged:         notion.Tagged{Type: typ, Data: raw(data)},
	}
}

// TextBlock builds a block whose payload is {"rich_text": spans}, such as a
// paragraph, heading, list item or quote.
func TextBlock(typ string, spans []notion.RichText, hasChildren bool) notion.Block {
	return Block(typ, map[string]any{"rich_text": spans, "color": "default"}, hasChildren)
}

// Paragraph builds a childless paragraph of unstyled spans.
func Paragraph(texts ...string) notion.Block {
	return TextBlock("paragraph", Text(texts...), false)
}

// ToDo builds a to-do item.
func ToDo(text string, checked bool) notion.Block {
	return Block("to_do", map[string]any{"rich_text": Text(text), "checked": checked, "color": "default"}, false)
}

// CodeBlock builds a code block.
func CodeBlock(text, language string) notion.Block {
	return Block("code", map[string]any{"rich_text": Text(text), "language": language, "caption": []any{}}, false)
}

// Table builds a table block; rows are supplied separately as children.
func Table(width int, columnHeader, rowHeader bool) notion.Block {
	return Block("table", map[string]any{
		"table_width": width, "has_column_header": columnHeader, "has_row_header": rowHeader,
	}, true)
}

// TableRow builds a table row with one plain cell per string.
func TableRow(cells ...string) notion.Block {
	cs := make([][]notion.RichText, len(cells))
	for i, c := range cells {
		cs[i] = Text(c)
	}
	return Block("table_row", map[string]any{"cells": cs}, false)
}

// PropertyValue builds a page property value.
func PropertyValue(typ string, data any) notion.PropertyValue {
	return notion.PropertyValue{ID: ID()[:4], Tagged: notion.Tagged{Type: typ, Data: raw(data)}}
}

// TitleValue builds a title property value.
func TitleValue(text string) notion.PropertyValue {
	return PropertyValue("title", Text(text))
}

// RichTextValue builds a rich_text property value.
func RichTextValue(spans ...notion.RichText) notion.PropertyValue {
	return PropertyValue("rich_text", spans)
}

// DateValue builds a date property value. An empty start means no date.
func DateValue(start, end string) notion.PropertyValue {
	if start == "" {
		return PropertyValue("date", nil)
	}
	return PropertyValue("date", dateValue(start, end))
}

// Page builds a page whose title property is "title". Extra properties are
// merged in.
func Page(title string, props map[string]notion.PropertyValue) *notion.Page {
	id := ID()
	by := User("Test")
	p := &notion.Page{
		Object:         "page",
		ID:             id,
		CreatedTime:    "2022-03-01T19:05:00.000Z",
		LastEditedTime: "2022-03-01T19:05:00.000Z",
		CreatedBy:      by,
		LastEditedBy:   by,
		URL:            "https://www.notion.so/" + notion.IDFromShareLink(id),
		Parent:         notion.Parent{Type: "workspace", Workspace: true},
		Properties:     map[string]notion.PropertyValue{"title": TitleValue(title)},
	}
	for k, v := range props {
		p.Properties[k] = v
	}
	return p
}

// Database builds a database with a title column named "Name".
func Database(title string) *notion.Database {
	id := ID()
	by := User("Test")
	return &notion.Database{
		Object:         "database",
		ID:             id,
		CreatedTime:    "2022-03-01T19:05:00.000Z",
		LastEditedTime: "2022-03-01T19:05:00.000Z",
		CreatedBy:      by,
		LastEditedBy:   by,
		Title:          Text(title),
		URL:            "https://www.notion.so/" + notion.IDFromShareLink(id),
		Parent:         notion.Parent{Type: "workspace", Workspace: true},
		Properties: map[string]notion.Property{
			"Name": {ID: "title", Name: "Name", Tagged: notion.Tagged{Type: "title", Data: raw(map[string]any{})}},
		},
	}
}
