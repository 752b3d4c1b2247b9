// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugins

import (
	"context"
	"regexp"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/registry"
)

var rawFormatCaption = regexp.MustCompile(`^\{=(.+)\}`)

// RawCodeBlocks passes a code block through verbatim when its caption starts
// with "{=format}". Writers for other formats drop it.
func RawCodeBlocks() convert.Plugin {
	return convert.Plugin{
		Name: "rawcodeblocks",
		Blocks: map[string]convert.BlockClass{
			"code": convert.NewBlockClass("RawCodeBlock", convert.CodeClass, newRawCodeBlock),
		},
	}
}

type rawCodeBlock struct {
	*convert.CodeBlock
	Format string
}

func newRawCodeBlock(ctx context.Context, a convert.BlockArgs) (*rawCodeBlock, error) {
	b, err := convert.NewCodeBlock(ctx, shallow(a))
	if err != nil {
		return nil, err
	}
	m := b.Caption.Matches(rawFormatCaption)
	if m == nil {
		return nil, registry.ErrUseNext
	}
	return &rawCodeBlock{CodeBlock: b, Format: m[1]}, adopt(ctx, b, a)
}

func (b *rawCodeBlock) ToTree(context.Context) ([]ir.Block, error) {
	return []ir.Block{ir.RawBlock{Format: b.Format, Text: b.RichText.PlainText()}}, nil
}

// RemoveCallouts drops callouts and everything nested in them.
func RemoveCallouts() convert.Plugin {
	return convert.Plugin{
		Name: "removecallouts",
		Blocks: map[string]convert.BlockClass{
			"callout": convert.NewBlockClass("RemovedCalloutBlock", convert.CalloutClass, convert.NewNoopBlock),
		},
	}
}

// ExpandBlueToggles replaces toggles with a blue background by their
// content. Other toggles are left alone.
func ExpandBlueToggles() convert.Plugin {
	return convert.Plugin{
		Name: "expandbluetoggles",
		Blocks: map[string]convert.BlockClass{
			"toggle": convert.NewBlockClass("ExpandedToggleBlock", convert.ToggleClass, newExpandedToggle),
		},
	}
}

type expandedToggleBlock struct {
	*convert.ToggleBlock
}

func newExpandedToggle(ctx context.Context, a convert.BlockArgs) (*expandedToggleBlock, error) {
	b, err := convert.NewToggleBlock(ctx, shallow(a))
	if err != nil {
		return nil, err
	}
	if b.Color != "blue_background" {
		return nil, registry.ErrUseNext
	}
	return &expandedToggleBlock{ToggleBlock: b}, adopt(ctx, b, a)
}

func (b *expandedToggleBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	return b.ChildrenToTree(ctx)
}

// QuoteBlocks renders quotes as a div carrying the "blockquote" and
// "notion-quote" classes, so HTML output can style them like Notion does.
func QuoteBlocks() convert.Plugin {
	return convert.Plugin{
		Name: "quoteblock",
		Blocks: map[string]convert.BlockClass{
			"quote": convert.NewBlockClass("StyledQuoteBlock", convert.QuoteClass, newStyledQuote),
		},
	}
}

type styledQuote struct {
	*convert.QuoteBlock
}

func newStyledQuote(ctx context.Context, a convert.BlockArgs) (*styledQuote, error) {
	b, err := convert.NewQuoteBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	return &styledQuote{QuoteBlock: b}, nil
}

func (b *styledQuote) ToTree(ctx context.Context) ([]ir.Block, error) {
	tree, err := b.QuoteBlock.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	var content []ir.Block
	for _, n := range tree {
		if q, ok := n.(ir.BlockQuote); ok {
			content = append(content, q.Blocks...)
			continue
		}
		content = append(content, n)
	}
	return []ir.Block{ir.Div{Classes: []string{"blockquote", "notion-quote"}, Blocks: content}}, nil
}
