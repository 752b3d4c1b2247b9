// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
	nt "github.com/pdiddy/n2y/internal/notion/notiontest"
)

func (h *harness) spans(t *testing.T, raws ...notion.RichText) *RichTextArray {
	t.Helper()
	a, err := h.conv.WrapRichTextArray(context.Background(), raws, nil)
	require.NoError(t, err)
	return a
}

func TestRichText_Markdown(t *testing.T) {
	tests := []struct {
		name  string
		spans []notion.RichText
		want  string
	}{
		{
			name:  "bold word",
			spans: []notion.RichText{nt.Span("A "), nt.Span("bold", nt.Bold), nt.Span(" word.")},
			want:  "A **bold** word.",
		},
		{
			name:  "bold with surrounding spaces",
			spans: []notion.RichText{nt.Span("A"), nt.Span(" bold ", nt.Bold), nt.Span("word.")},
			want:  "A **bold** word.",
		},
		{
			name:  "bold italic",
			spans: []notion.RichText{nt.Span("A "), nt.Span("bold-italic", nt.Bold, nt.Italic), nt.Span(" word.")},
			want:  "A ***bold-italic*** word.",
		},
		{
			name:  "strikethrough",
			spans: []notion.RichText{nt.Span("A "), nt.Span("deleted", nt.Strikethrough), nt.Span(" word.")},
			want:  "A ~~deleted~~ word.",
		},
		{
			name:  "inline code keeps spaces",
			spans: []notion.RichText{nt.Span("Run "), nt.Span("go  test", nt.Code)},
			want:  "Run `go  test`",
		},
		{
			name:  "link around styled text",
			spans: []notion.RichText{nt.Span("This "), nt.Link("link", "https://example.com", nt.Bold), nt.Span(".")},
			want:  "This [**link**](https://example.com).",
		},
		{
			name:  "inline equation",
			spans: []notion.RichText{nt.Span("("), nt.Equation("x^2"), nt.Span(")")},
			want:  "($x^2$)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			got, err := h.spans(t, tt.spans...).ToValue(context.Background(), "gfm", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRichText_CodeIsStyledAfterLiteral(t *testing.T) {
	h := newHarness(t)
	got, err := h.spans(t, nt.Span(" did", nt.Code, nt.Bold, nt.Underline)).ToTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ir.Inline{ir.Underline{Content: []ir.Inline{ir.Strong{Content: []ir.Inline{ir.Code{Text: " did"}}}}}}, got)
}

func TestRichText_PlainValue(t *testing.T) {
	h := newHarness(t)
	a := h.spans(t, nt.Span("Plain "), nt.Span("text", nt.Bold))
	got, err := a.ToValue(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Plain text", got)
	assert.Equal(t, 2, a.Len())
}

func TestRichTextArray_LStripAcrossSpans(t *testing.T) {
	h := newHarness(t)
	a := h.spans(t, nt.Span("=="), nt.Span("= Deep"))
	assert.Equal(t, []string{"=== Deep", "=== "}, a.Matches(regexp.MustCompile(`^(=+ ).*`)))

	a.LStrip("=== ")
	assert.Equal(t, "Deep", a.PlainText())

	a.LStrip("nope")
	assert.Equal(t, "Deep", a.PlainText())
}

func TestRichTextArray_Prepend(t *testing.T) {
	h := newHarness(t)
	a := h.spans(t, nt.Span("world"))
	require.NoError(t, a.Prepend(context.Background(), "hello "))
	assert.Equal(t, "hello world", a.PlainText())
	got, err := a.ToTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ir.Inline{s("hello"), ir.Space{}, s("world")}, got)
}

func TestMentions(t *testing.T) {
	h := newHarness(t)
	linked := nt.Page("Linked Page", nil)
	h.api.AddPage(linked)

	tests := []struct {
		name string
		span notion.RichText
		want []ir.Inline
	}{
		{
			name: "user",
			span: nt.Mention("@Jane", nt.UserMention(nt.User("Jane Doe"))),
			want: []ir.Inline{s("Jane"), ir.Space{}, s("Doe")},
		},
		{
			name: "page title",
			span: nt.Mention("Untitled", nt.PageMention(linked.ID)),
			want: []ir.Inline{s("Linked"), ir.Space{}, s("Page")},
		},
		{
			name: "missing page falls back to span text",
			span: nt.Mention("Gone", nt.PageMention(nt.ID())),
			want: []ir.Inline{s("Gone")},
		},
		{
			name: "date range",
			span: nt.Mention("2022-01-01", nt.DateMention("2022-01-01", "2022-01-05")),
			want: []ir.Inline{s("2022-01-01"), ir.Space{}, s("to"), ir.Space{}, s("2022-01-05")},
		},
		{
			name: "link mention",
			span: nt.Mention("x", nt.LinkMention("https://example.com", "Example")),
			want: []ir.Inline{ir.Link{Content: []ir.Inline{s("Example")}, URL: "https://example.com"}},
		},
		{
			name: "bold user",
			span: nt.Mention("@Ann", nt.UserMention(nt.User("Ann")), nt.Bold),
			want: []ir.Inline{ir.Strong{Content: []ir.Inline{s("Ann")}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.spans(t, tt.span).ToTree(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMention_CodeAnnotationIsDropped(t *testing.T) {
	h := newHarness(t)
	got, err := h.spans(t, nt.Mention("@Ann", nt.UserMention(nt.User("Ann")), nt.Code)).ToTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ir.Inline{s("Ann")}, got)
	assert.Contains(t, h.logs.String(), "code annotation on a mention")
}
