// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// RichTextArgs is what a rich text class is constructed from. Block is the
// block the span belongs to and may be nil for spans in properties.
type RichTextArgs struct {
	Conv  *Converter
	Raw   notion.RichText
	Block Block
}

// RichText is one styled span of text.
type RichText interface {
	Span() *BaseRichText
	ToTree(ctx context.Context) ([]ir.Inline, error)
}

// BaseRichText holds the fields shared by every span kind.
type BaseRichText struct {
	Conv        *Converter
	Raw         notion.RichText
	Block       Block
	Type        string
	PlainText   string
	Href        string
	Annotations Annotations
}

// NewBaseRichText fills the shared fields from args.
func NewBaseRichText(a RichTextArgs) BaseRichText {
	return BaseRichText{
		Conv:        a.Conv,
		Raw:         a.Raw,
		Block:       a.Block,
		Type:        a.Raw.Type,
		PlainText:   a.Raw.PlainText,
		Href:        a.Raw.HrefString(),
		Annotations: annotationsFrom(a.Raw.Annotations),
	}
}

// Span returns the shared fields.
func (r *BaseRichText) Span() *BaseRichText { return r }

// Finish applies the span's annotations to ns and, if the span has a link,
// wraps the result in it. Output that is already a single link is not
// wrapped again.
func (r *BaseRichText) Finish(ns []ir.Inline) []ir.Inline {
	ns = r.Annotations.Apply(ns)
	if r.Href != "" && !isSingleLink(ns) {
		ns = []ir.Inline{ir.Link{Content: ns, URL: r.Href}}
	}
	return ns
}

// TextRichText is a plain text span.
type TextRichText struct {
	BaseRichText
}

// NewTextRichText constructs a text span.
func NewTextRichText(_ context.Context, a RichTextArgs) (*TextRichText, error) {
	return &TextRichText{BaseRichText: NewBaseRichText(a)}, nil
}

// ToTree tokenizes the text, or emits a single code span when the code flag
// is set, then applies styling.
func (r *TextRichText) ToTree(context.Context) ([]ir.Inline, error) {
	if r.Annotations.Code {
		return r.Finish([]ir.Inline{ir.Code{Text: r.PlainText}}), nil
	}
	return r.Finish(Tokenize(r.PlainText)), nil
}

// EquationRichText is an inline TeX expression.
type EquationRichText struct {
	BaseRichText
	Expression string
}

// NewEquationRichText constructs an equation span.
func NewEquationRichText(_ context.Context, a RichTextArgs) (*EquationRichText, error) {
	var data struct {
		Expression string `json:"expression"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &EquationRichText{BaseRichText: NewBaseRichText(a), Expression: data.Expression}, nil
}

// ToTree emits inline math.
func (r *EquationRichText) ToTree(context.Context) ([]ir.Inline, error) {
	return r.Finish([]ir.Inline{ir.Math{Expr: r.Expression}}), nil
}

// MentionRichText is a span that references a user, page, date or link.
type MentionRichText struct {
	BaseRichText
	Mention Mention
}

// NewMentionRichText constructs a mention span and its mention payload.
func NewMentionRichText(ctx context.Context, a RichTextArgs) (*MentionRichText, error) {
	r := &MentionRichText{BaseRichText: NewBaseRichText(a)}
	var raw notion.Mention
	if err := a.Raw.DecodeData(&raw); err != nil {
		return nil, err
	}
	m, err := a.Conv.WrapMention(ctx, raw, &r.BaseRichText)
	if err != nil {
		return nil, err
	}
	r.Mention = m
	return r, nil
}

// ToTree renders the mention and styles it. Mentions cannot be code, so the
// code flag is dropped with a warning.
func (r *MentionRichText) ToTree(ctx context.Context) ([]ir.Inline, error) {
	ns, err := r.Mention.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	if r.Annotations.Code {
		r.Conv.log.Warn().Str("text", r.PlainText).Msg("code annotation on a mention is not supported, dropping it")
	}
	return r.Finish(ns), nil
}

// RichTextArray is an ordered sequence of spans.
type RichTextArray struct {
	conv  *Converter
	block Block
	Items []RichText
}

// Len returns the number of spans.
func (a *RichTextArray) Len() int { return len(a.Items) }

// ToTree concatenates the inlines of every span.
func (a *RichTextArray) ToTree(ctx context.Context) ([]ir.Inline, error) {
	var out []ir.Inline
	for _, item := range a.Items {
		ns, err := item.ToTree(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, ns...)
	}
	return out, nil
}

// PlainText concatenates the unstyled text of every span.
func (a *RichTextArray) PlainText() string {
	var b strings.Builder
	for _, item := range a.Items {
		b.WriteString(item.Span().PlainText)
	}
	return b.String()
}

// Matches applies re to the plain text and returns its submatches, or nil.
func (a *RichTextArray) Matches(re *regexp.Regexp) []string {
	return re.FindStringSubmatch(a.PlainText())
}

// LStrip removes prefix from the start of the text, across span boundaries
// when needed. Nothing changes if the text does not start with prefix.
func (a *RichTextArray) LStrip(prefix string) {
	if !strings.HasPrefix(a.PlainText(), prefix) {
		return
	}
	for _, item := range a.Items {
		if prefix == "" {
			return
		}
		s := item.Span()
		if len(s.PlainText) <= len(prefix) {
			prefix = prefix[len(s.PlainText):]
			s.PlainText = ""
			continue
		}
		s.PlainText = s.PlainText[len(prefix):]
		prefix = ""
	}
}

// Prepend inserts an unstyled text span at the start.
func (a *RichTextArray) Prepend(ctx context.Context, text string) error {
	content, err := json.Marshal(map[string]any{"content": text, "link": nil})
	if err != nil {
		return err
	}
	raw := notion.RichText{
		PlainText:   text,
		Annotations: notion.Annotations{Color: "default"},
		Tagged:      notion.Tagged{Type: "text", Data: content},
	}
	item, err := a.conv.WrapRichText(ctx, raw, a.block)
	if err != nil {
		return err
	}
	a.Items = append([]RichText{item}, a.Items...)
	return nil
}

// ToValue renders the spans as a string. An empty format returns the plain
// text; any other format goes through the renderer with trailing newlines
// trimmed.
func (a *RichTextArray) ToValue(ctx context.Context, format string, opts []string) (string, error) {
	if format == "" {
		return a.PlainText(), nil
	}
	ns, err := a.ToTree(ctx)
	if err != nil {
		return "", err
	}
	out, err := a.conv.renderer.Render(ir.Document{Blocks: []ir.Block{ir.Plain{Inlines: ns}}}, format, opts)
	if err != nil {
		return "", fmt.Errorf("rendering rich text as %s: %w", format, err)
	}
	return trimTrailingNewlines(out), nil
}
