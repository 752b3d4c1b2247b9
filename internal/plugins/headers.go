// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugins

import (
	"context"
	"regexp"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/registry"
)

var deepHeaderPrefix = regexp.MustCompile(`^(=+) `)

// maxHeaderLevel is the deepest level the writers support.
const maxHeaderLevel = 6

// DeepHeaders turns a heading_3 that starts with one or more "=" and a space
// into a deeper heading: "== Title" becomes a level 5 "Title". Levels stop
// at 6.
func DeepHeaders() convert.Plugin {
	return convert.Plugin{
		Name: "deepheaders",
		Blocks: map[string]convert.BlockClass{
			"heading_3": convert.NewBlockClass("DeepHeadingBlock", convert.HeadingThreeClass, newDeepHeading),
		},
	}
}

func newDeepHeading(ctx context.Context, a convert.BlockArgs) (*convert.HeadingBlock, error) {
	b, err := convert.NewHeadingBlock(ctx, shallow(a), 3)
	if err != nil {
		return nil, err
	}
	m := b.RichText.Matches(deepHeaderPrefix)
	if m == nil {
		return nil, registry.ErrUseNext
	}
	b.Level = min(b.Level+len(m[1]), maxHeaderLevel)
	b.RichText.LStrip(m[0])
	return b, adopt(ctx, b, a)
}

// LinkedHeaders makes every heading's text a link back to its Notion block.
func LinkedHeaders() convert.Plugin {
	classes := map[string]convert.BlockClass{}
	for level, tag := range []string{"heading_1", "heading_2", "heading_3"} {
		extends := []string{convert.HeadingOneClass, convert.HeadingTwoClass, convert.HeadingThreeClass}[level]
		classes[tag] = convert.NewBlockClass("Linked"+extends, extends, linkedHeading(level+1))
	}
	return convert.Plugin{Name: "linkedheaders", Blocks: classes}
}

type linkedHeadingBlock struct {
	*convert.HeadingBlock
}

func linkedHeading(level int) func(context.Context, convert.BlockArgs) (*linkedHeadingBlock, error) {
	return func(ctx context.Context, a convert.BlockArgs) (*linkedHeadingBlock, error) {
		b, err := convert.NewHeadingBlock(ctx, a, level)
		if err != nil {
			return nil, err
		}
		return &linkedHeadingBlock{HeadingBlock: b}, nil
	}
}

// ToTree wraps the heading text in a link to the source block. Children of
// toggleable headings are not emitted.
func (b *linkedHeadingBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	ns, err := b.RichText.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	link := ir.Link{Content: ns, URL: b.NotionURL()}
	return []ir.Block{ir.Header{Level: b.Level, Inlines: []ir.Inline{link}}}, nil
}
