// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugins

import (
	"context"
	"regexp"
	"strings"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/registry"
)

const footnotesKey = "footnotes"

var (
	footnoteDefinition = regexp.MustCompile(`^\[(\d+)\]:`)
	footnoteReference  = regexp.MustCompile(`\[\^(\d+)\]`)
)

// Footnotes turns paragraphs starting with "[n]:" into footnote bodies and
// "[^n]" markers in text into references to them. Definition paragraphs do
// not appear in the output on their own.
func Footnotes() convert.Plugin {
	return convert.Plugin{
		Name: "footnotes",
		Blocks: map[string]convert.BlockClass{
			"paragraph": convert.NewBlockClass("FootnoteParagraphBlock", convert.ParagraphClass, newFootnoteParagraph),
		},
		RichTexts: map[string]convert.RichTextClass{
			"text": convert.NewRichTextClass("FootnoteRefRichText", convert.TextRichTextClass, newFootnoteRef),
		},
	}
}

// footnoteParagraph handles every paragraph. Label is set only on
// definitions; other paragraphs render as usual.
type footnoteParagraph struct {
	*convert.ParagraphBlock
	Label string
}

func definitions(conv *convert.Converter) map[string]*footnoteParagraph {
	data := conv.PluginData()
	defs, ok := data[footnotesKey].(map[string]*footnoteParagraph)
	if !ok {
		defs = make(map[string]*footnoteParagraph)
		data[footnotesKey] = defs
	}
	return defs
}

func newFootnoteParagraph(ctx context.Context, a convert.BlockArgs) (*footnoteParagraph, error) {
	b, err := convert.NewParagraphBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	p := &footnoteParagraph{ParagraphBlock: b}
	first, _, _ := strings.Cut(b.RichText.PlainText(), " ")
	m := footnoteDefinition.FindStringSubmatch(first)
	if m == nil || first != m[0] {
		return p, nil
	}
	if strings.HasPrefix(b.RichText.PlainText(), m[0]+" ") {
		b.RichText.LStrip(m[0] + " ")
	} else {
		b.RichText.LStrip(m[0])
	}
	p.Label = m[1]
	definitions(a.Conv)[p.Label] = p
	return p, nil
}

// ToTree renders ordinary paragraphs. Definitions appear only where they
// are referenced.
func (b *footnoteParagraph) ToTree(ctx context.Context) ([]ir.Block, error) {
	if b.Label == "" {
		return b.ParagraphBlock.ToTree(ctx)
	}
	return nil, nil
}

// Note renders the footnote body.
func (b *footnoteParagraph) Note(ctx context.Context) (ir.Note, error) {
	blocks, err := b.ParagraphBlock.ToTree(ctx)
	if err != nil {
		return ir.Note{}, err
	}
	return ir.Note{Blocks: blocks}, nil
}

type footnoteRef struct {
	*convert.TextRichText
}

func newFootnoteRef(ctx context.Context, a convert.RichTextArgs) (*footnoteRef, error) {
	if !footnoteReference.MatchString(a.Raw.PlainText) {
		return nil, registry.ErrUseNext
	}
	r, err := convert.NewTextRichText(ctx, a)
	if err != nil {
		return nil, err
	}
	return &footnoteRef{TextRichText: r}, nil
}

// ToTree replaces "[^n]" markers in words with notes. Markers without a
// matching definition are kept as text.
func (r *footnoteRef) ToTree(ctx context.Context) ([]ir.Inline, error) {
	if r.Annotations.Code {
		return r.TextRichText.ToTree(ctx)
	}
	defs := definitions(r.Conv)
	var out []ir.Inline
	for _, n := range convert.Tokenize(r.PlainText) {
		word, ok := n.(ir.Str)
		if !ok {
			out = append(out, n)
			continue
		}
		rest := word.Text
		for {
			loc := footnoteReference.FindStringSubmatchIndex(rest)
			if loc == nil {
				break
			}
			label := rest[loc[2]:loc[3]]
			def, found := defs[label]
			if !found {
				r.Conv.Logger().Warn().Str("footnote", label).Msg("footnote reference has no definition, keeping it as text")
				out = appendStr(out, rest[:loc[1]])
				rest = rest[loc[1]:]
				continue
			}
			note, err := def.Note(ctx)
			if err != nil {
				return nil, err
			}
			out = appendStr(out, rest[:loc[0]])
			out = append(out, note)
			rest = rest[loc[1]:]
		}
		out = appendStr(out, rest)
	}
	return r.Finish(out), nil
}

func appendStr(ns []ir.Inline, text string) []ir.Inline {
	if text == "" {
		return ns
	}
	if len(ns) > 0 {
		if last, ok := ns[len(ns)-1].(ir.Str); ok {
			ns[len(ns)-1] = ir.Str{Text: last.Text + text}
			return ns
		}
	}
	return append(ns, ir.Str{Text: text})
}
