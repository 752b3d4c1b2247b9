// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugins

import (
	"context"
	"strings"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
	"github.com/pdiddy/n2y/internal/registry"
)

// InternalLinks points links to a block on the same page at that block's
// heading anchor instead of back at notion.so.
func InternalLinks() convert.Plugin {
	return convert.Plugin{
		Name: "internallinks",
		RichTexts: map[string]convert.RichTextClass{
			"text": convert.NewRichTextClass("InternalLinkRichText", convert.TextRichTextClass, newInternalLink),
		},
	}
}

type internalLink struct {
	*convert.TextRichText
}

// isInternalLink reports whether href points into the page with id. Notion
// writes these as "/<page id>#<block id>" with the hyphens removed.
func isInternalLink(href, pageID string) bool {
	return href != "" && strings.HasPrefix(href, "/"+strings.ReplaceAll(pageID, "-", ""))
}

func newInternalLink(ctx context.Context, a convert.RichTextArgs) (*internalLink, error) {
	if a.Block == nil || a.Block.Base().Page == nil || !isInternalLink(a.Raw.HrefString(), a.Block.Base().Page.ID) {
		return nil, registry.ErrUseNext
	}
	r, err := convert.NewTextRichText(ctx, a)
	if err != nil {
		return nil, err
	}
	return &internalLink{TextRichText: r}, nil
}

// ToTree links to the anchor of the target block. Links whose target cannot
// be found keep pointing at Notion.
func (r *internalLink) ToTree(ctx context.Context) ([]ir.Inline, error) {
	log := r.Conv.Logger()
	_, fragment, _ := strings.Cut(r.Href, "#")
	target, err := notion.NormalizeID(fragment)
	if err != nil {
		log.Warn().Str("href", r.Href).Msg("internal link has no block id, keeping the Notion link")
		return r.TextRichText.ToTree(ctx)
	}
	root, err := r.Block.Base().Page.Block(ctx)
	if err != nil {
		return nil, err
	}
	tb, ok := findBlock([]convert.Block{root}, target).(convert.TextBlock)
	if !ok {
		log.Error().Str("href", r.Href).Str("target", target).Msg("internal link target block not found, keeping the Notion link")
		return r.TextRichText.ToTree(ctx)
	}
	local := *r.TextRichText
	local.Href = "#" + convert.HeaderID(tb.Text().PlainText())
	return local.ToTree(ctx)
}

// findBlock returns the block with the canonical id target, searching
// blocks and everything nested in them.
func findBlock(blocks []convert.Block, target string) convert.Block {
	for _, b := range blocks {
		if id, err := notion.NormalizeID(b.Base().ID); err == nil && id == target {
			return b
		}
		if found := findBlock(convert.ChildrenOf(b), target); found != nil {
			return found
		}
	}
	return nil
}

const expandingKey = "expandlinktopages"

// ExpandLinkToPages replaces a link to another page with that page's body.
// Links to databases keep the built-in rendering.
func ExpandLinkToPages() convert.Plugin {
	return convert.Plugin{
		Name: "expandlinktopages",
		Blocks: map[string]convert.BlockClass{
			"link_to_page": convert.NewBlockClass("ExpandingLinkToPageBlock", convert.LinkToPageClass, newExpandingLink),
		},
	}
}

type expandingLink struct {
	*convert.LinkToPageBlock
	fetched bool
}

func newExpandingLink(ctx context.Context, a convert.BlockArgs) (*expandingLink, error) {
	b, err := convert.NewLinkToPageBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	if b.LinkType != "page_id" {
		return nil, registry.ErrUseNext
	}
	return &expandingLink{LinkToPageBlock: b}, nil
}

// ToTree emits the linked page's blocks as if they belonged to this page.
// A page that is already being expanded further up is left as a link.
func (b *expandingLink) ToTree(ctx context.Context) ([]ir.Block, error) {
	log := b.Conv.Logger()
	data := b.Conv.PluginData()
	expanding, _ := data[expandingKey].(map[string]bool)
	if expanding == nil {
		expanding = make(map[string]bool)
		data[expandingKey] = expanding
	}
	target, err := notion.NormalizeID(b.TargetID)
	if err != nil {
		return nil, err
	}
	if expanding[target] {
		log.Warn().Str("block", b.NotionURL()).Str("target", b.TargetID).Msg("linked page contains a link back to itself, not expanding it again")
		return b.LinkToPageBlock.ToTree(ctx)
	}

	if !b.fetched {
		page, err := b.Conv.GetPage(ctx, b.TargetID)
		if err != nil && !notion.IsPermissionError(err) {
			return nil, err
		}
		if page == nil {
			log.Warn().Str("block", b.NotionURL()).Str("target", b.TargetID).Msg("linked page is missing or not shared with the integration, skipping it")
			return nil, nil
		}
		children, err := b.Conv.GetChildBlocks(ctx, b.TargetID, b.Page, true)
		if err != nil {
			return nil, err
		}
		b.SetChildren(children)
		b.fetched = true
	}

	expanding[target] = true
	defer delete(expanding, target)
	return b.ChildrenToTree(ctx)
}
