// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"strings"
	"unicode"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// textPayload is the payload shape shared by every block that carries a
// rich_text array.
type textPayload struct {
	RichText []notion.RichText `json:"rich_text"`
	Color    string            `json:"color"`
}

// ParagraphBlock is a paragraph, optionally with nested blocks.
type ParagraphBlock struct {
	BaseBlock
	RichText *RichTextArray
	Color    string
}

// NewParagraphBlock constructs a paragraph.
func NewParagraphBlock(ctx context.Context, a BlockArgs) (*ParagraphBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &ParagraphBlock{BaseBlock: base}
	var data textPayload
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b.Color = data.Color
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToTree emits the paragraph followed by its children.
func (b *ParagraphBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	ns, err := b.RichText.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	children, err := b.ChildrenToTree(ctx)
	if err != nil {
		return nil, err
	}
	return append([]ir.Block{ir.Para{Inlines: ns}}, children...), nil
}

// HeadingBlock is a level 1 to 3 heading. Bold is stripped from its spans
// since headings are already emphasized.
type HeadingBlock struct {
	BaseBlock
	Level        int
	RichText     *RichTextArray
	IsToggleable bool
}

type headingPayload struct {
	textPayload
	IsToggleable bool `json:"is_toggleable"`
}

// NewHeadingBlock constructs a heading of the given level.
func NewHeadingBlock(ctx context.Context, a BlockArgs, level int) (*HeadingBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &HeadingBlock{BaseBlock: base, Level: level}
	var data headingPayload
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b.IsToggleable = data.IsToggleable
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	for _, item := range b.RichText.Items {
		item.Span().Annotations.Bold = false
	}
	return b, nil
}

// ToTree emits the heading with an anchor id. Children of a toggleable
// heading follow it.
func (b *HeadingBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	ns, err := b.RichText.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	out := []ir.Block{ir.Header{Level: b.Level, ID: HeaderID(ir.Stringify(ns)), Inlines: ns}}
	children, err := b.ChildrenToTree(ctx)
	if err != nil {
		return nil, err
	}
	return append(out, children...), nil
}

// HeaderID builds an anchor from heading text: lowercased, spaces become
// hyphens and punctuation other than "_", "-" and "." is removed.
func HeaderID(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	id := strings.TrimLeftFunc(b.String(), func(r rune) bool { return !unicode.IsLetter(r) })
	if id == "" {
		return "section"
	}
	return id
}

// ListItemBlock is a bulleted or numbered list item. Its tree is the item
// body; the enclosing ListGroup supplies the list node.
type ListItemBlock struct {
	BaseBlock
	RichText *RichTextArray
}

// NewListItemBlock constructs a bulleted or numbered list item.
func NewListItemBlock(ctx context.Context, a BlockArgs) (*ListItemBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &ListItemBlock{BaseBlock: base}
	var data textPayload
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToTree emits the item text followed by any nested blocks.
func (b *ListItemBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	ns, err := b.RichText.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	children, err := b.ChildrenToTree(ctx)
	if err != nil {
		return nil, err
	}
	return append([]ir.Block{ir.Plain{Inlines: ns}}, children...), nil
}

// ToDoBlock is a checklist item. The checkbox is written as a leading ☒ or
// ☐ which the Markdown writer turns into a task marker.
type ToDoBlock struct {
	ListItemBlock
	Checked bool
}

// NewToDoBlock constructs a checklist item.
func NewToDoBlock(ctx context.Context, a BlockArgs) (*ToDoBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &ToDoBlock{ListItemBlock: ListItemBlock{BaseBlock: base}}
	var data struct {
		textPayload
		Checked bool `json:"checked"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b.Checked = data.Checked
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	box := "☐ "
	if b.Checked {
		box = "☒ "
	}
	if err := b.RichText.Prepend(ctx, box); err != nil {
		return nil, err
	}
	return b, nil
}

// ToggleBlock is a collapsible header with hidden content, rendered as a
// one-item bulleted list.
type ToggleBlock struct {
	BaseBlock
	RichText *RichTextArray
	Color    string
}

// NewToggleBlock constructs a toggle.
func NewToggleBlock(ctx context.Context, a BlockArgs) (*ToggleBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &ToggleBlock{BaseBlock: base}
	var data textPayload
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b.Color = data.Color
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToTree emits a single-item list holding the header and the content.
func (b *ToggleBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	ns, err := b.RichText.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	children, err := b.ChildrenToTree(ctx)
	if err != nil {
		return nil, err
	}
	item := append([]ir.Block{ir.Para{Inlines: ns}}, children...)
	return []ir.Block{ir.BulletList{Items: [][]ir.Block{item}}}, nil
}

// QuoteBlock is a block quote.
type QuoteBlock struct {
	BaseBlock
	RichText *RichTextArray
}

// NewQuoteBlock constructs a quote.
func NewQuoteBlock(ctx context.Context, a BlockArgs) (*QuoteBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &QuoteBlock{BaseBlock: base}
	var data textPayload
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToTree quotes the text and the nested blocks.
func (b *QuoteBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	ns, err := b.RichText.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	children, err := b.ChildrenToTree(ctx)
	if err != nil {
		return nil, err
	}
	return []ir.Block{ir.BlockQuote{Blocks: append([]ir.Block{ir.Para{Inlines: ns}}, children...)}}, nil
}

// CalloutBlock is a highlighted paragraph. The icon is not rendered.
type CalloutBlock struct {
	BaseBlock
	RichText *RichTextArray
	Color    string
	Icon     string
}

// NewCalloutBlock constructs a callout.
func NewCalloutBlock(ctx context.Context, a BlockArgs) (*CalloutBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &CalloutBlock{BaseBlock: base}
	var data struct {
		textPayload
		Icon *struct {
			Emoji string `json:"emoji"`
		} `json:"icon"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b.Color = data.Color
	if data.Icon != nil {
		b.Icon = data.Icon.Emoji
	}
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToTree emits the text as a paragraph followed by the children.
func (b *CalloutBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	ns, err := b.RichText.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	children, err := b.ChildrenToTree(ctx)
	if err != nil {
		return nil, err
	}
	return append([]ir.Block{ir.Para{Inlines: ns}}, children...), nil
}

// Languages whose Notion names differ from the usual highlighter names.
var languageAliases = map[string]string{
	"c#":          "cs",
	"c++":         "cpp",
	"f#":          "fsharp",
	"objective-c": "objectivec",
	"docker":      "dockerfile",
	"coffee":      "coffeescript",
	"shell":       "bash",
	"vb.net":      "vbnet",
}

var knownLanguages = map[string]bool{}

func init() {
	for _, l := range strings.Fields(`abap ada agda apl arduino assembly bash basic bnf c clojure
		coffeescript cpp crystal cs css dart diff dockerfile elixir elm erlang flow fortran
		fsharp gherkin glsl go graphql groovy haskell html java javascript json julia kotlin
		latex less lisp livescript lua makefile markdown markup matlab mermaid nix objectivec
		ocaml pascal perl php powershell prolog protobuf python r reason ruby rust sass scala
		scheme scss solidity sql swift toml typescript vbnet verilog vhdl xml yaml`) {
		knownLanguages[l] = true
	}
}

// CodeBlock is a block of source code.
type CodeBlock struct {
	BaseBlock
	Language string
	RichText *RichTextArray
	Caption  *RichTextArray
}

// NewCodeBlock constructs a code block.
func NewCodeBlock(ctx context.Context, a BlockArgs) (*CodeBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &CodeBlock{BaseBlock: base}
	var data struct {
		RichText []notion.RichText `json:"rich_text"`
		Caption  []notion.RichText `json:"caption"`
		Language string            `json:"language"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b.Language = data.Language
	if b.RichText, err = a.Conv.WrapRichTextArray(ctx, data.RichText, b); err != nil {
		return nil, err
	}
	if b.Caption, err = a.Conv.WrapRichTextArray(ctx, data.Caption, b); err != nil {
		return nil, err
	}
	return b, nil
}

// HighlightLanguage maps the Notion language name to a highlighter name,
// returning "" for plain text and unknown languages.
func (b *CodeBlock) HighlightLanguage() string {
	lang := strings.ToLower(b.Language)
	if alias, ok := languageAliases[lang]; ok {
		lang = alias
	}
	if knownLanguages[lang] {
		return lang
	}
	if lang != "plain text" && lang != "" {
		b.Conv.log.Warn().Str("language", b.Language).Str("block", b.NotionURL()).Msg("unsupported code language, dropping it")
	}
	return ""
}

// ToTree emits a fenced code block of the plain text.
func (b *CodeBlock) ToTree(context.Context) ([]ir.Block, error) {
	return []ir.Block{ir.CodeBlock{Language: b.HighlightLanguage(), Text: b.RichText.PlainText()}}, nil
}

// EquationBlock is a display equation.
type EquationBlock struct {
	BaseBlock
	Expression string
}

// NewEquationBlock constructs a display equation.
func NewEquationBlock(ctx context.Context, a BlockArgs) (*EquationBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	var data struct {
		Expression string `json:"expression"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &EquationBlock{BaseBlock: base, Expression: data.Expression}, nil
}

// ToTree emits display math in its own paragraph.
func (b *EquationBlock) ToTree(context.Context) ([]ir.Block, error) {
	return []ir.Block{ir.Para{Inlines: []ir.Inline{ir.Math{Display: true, Expr: b.Expression}}}}, nil
}

// DividerBlock is a horizontal rule.
type DividerBlock struct {
	BaseBlock
}

// NewDividerBlock constructs a divider.
func NewDividerBlock(ctx context.Context, a BlockArgs) (*DividerBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	return &DividerBlock{BaseBlock: base}, nil
}

// ToTree emits a horizontal rule.
func (b *DividerBlock) ToTree(context.Context) ([]ir.Block, error) {
	return []ir.Block{ir.HorizontalRule{}}, nil
}

// TextBlock is a block whose content starts with a rich text.
type TextBlock interface {
	Block
	Text() *RichTextArray
}

func (b *ParagraphBlock) Text() *RichTextArray { return b.RichText }
func (b *HeadingBlock) Text() *RichTextArray   { return b.RichText }
func (b *ListItemBlock) Text() *RichTextArray  { return b.RichText }
func (b *ToggleBlock) Text() *RichTextArray    { return b.RichText }
func (b *QuoteBlock) Text() *RichTextArray     { return b.RichText }
func (b *CalloutBlock) Text() *RichTextArray   { return b.RichText }
