// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"strings"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// BlockArgs is what a block class is constructed from.
type BlockArgs struct {
	Conv        *Converter
	Raw         notion.Block
	Page        *Page
	GetChildren bool
}

// Block is one typed node of a page body. ToTree may return no blocks, in
// which case the node contributes nothing to the output.
type Block interface {
	Base() *BaseBlock
	ToTree(ctx context.Context) ([]ir.Block, error)
}

// BaseBlock holds the fields shared by every block kind and the child
// handling they all use.
type BaseBlock struct {
	Conv           *Converter
	Raw            notion.Block
	Page           *Page
	ID             string
	Type           string
	HasChildren    bool
	Archived       bool
	CreatedTime    string
	LastEditedTime string
	Children       []Block

	loaded bool
}

// NewBaseBlock fills the shared fields and, when requested, loads children.
func NewBaseBlock(ctx context.Context, a BlockArgs) (BaseBlock, error) {
	b := BaseBlock{
		Conv:           a.Conv,
		Raw:            a.Raw,
		Page:           a.Page,
		ID:             a.Raw.ID,
		Type:           a.Raw.Type,
		HasChildren:    a.Raw.HasChildren,
		Archived:       a.Raw.Archived,
		CreatedTime:    a.Raw.CreatedTime,
		LastEditedTime: a.Raw.LastEditedTime,
	}
	if a.GetChildren {
		if err := b.LoadChildren(ctx); err != nil {
			return BaseBlock{}, err
		}
	}
	return b, nil
}

// Base returns the shared fields.
func (b *BaseBlock) Base() *BaseBlock { return b }

// LoadChildren fetches and wraps the children, at most once. Blocks without
// children never get a child list.
func (b *BaseBlock) LoadChildren(ctx context.Context) error {
	if b.loaded || !b.HasChildren {
		return nil
	}
	children, err := b.Conv.GetChildBlocks(ctx, b.ID, b.Page, true)
	if err != nil {
		return err
	}
	b.SetChildren(children)
	return nil
}

// SetChildren installs children that were obtained some other way. Later
// calls to LoadChildren keep them.
func (b *BaseBlock) SetChildren(children []Block) {
	b.Children = children
	b.loaded = true
}

// ChildrenToTree concatenates the trees of every child, loading children
// first if needed.
func (b *BaseBlock) ChildrenToTree(ctx context.Context) ([]ir.Block, error) {
	if err := b.LoadChildren(ctx); err != nil {
		return nil, err
	}
	return blocksToTree(ctx, b.Children)
}

// ToTree is the default rendering: the children's trees, flattened.
func (b *BaseBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	return b.ChildrenToTree(ctx)
}

// NotionURL returns a link to the block on notion.so.
func (b *BaseBlock) NotionURL() string {
	fragment := "#" + strings.ReplaceAll(b.ID, "-", "")
	if b.Page == nil {
		return fragment
	}
	u := b.Page.URL
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	return u + fragment
}

func blocksToTree(ctx context.Context, blocks []Block) ([]ir.Block, error) {
	var out []ir.Block
	for _, child := range blocks {
		tree, err := child.ToTree(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, tree...)
	}
	return out, nil
}

// ListKind is the kind of a synthetic list group.
type ListKind string

const (
	BulletedList ListKind = "bulleted_list"
	NumberedList ListKind = "numbered_list"
	Checklist    ListKind = "checklist"
)

var listKinds = map[string]ListKind{
	"bulleted_list_item": BulletedList,
	"numbered_list_item": NumberedList,
	"to_do":              Checklist,
}

// ListGroup is a run of adjacent list items of one kind. The API sends list
// items as independent siblings, so groups are built after fetching.
type ListGroup struct {
	BaseBlock
	Kind  ListKind
	Items []Block
}

// ToTree wraps each item's tree in one list node.
func (g *ListGroup) ToTree(ctx context.Context) ([]ir.Block, error) {
	items := make([][]ir.Block, 0, len(g.Items))
	for _, item := range g.Items {
		tree, err := item.ToTree(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, tree)
	}
	if g.Kind == NumberedList {
		return []ir.Block{ir.OrderedList{Start: 1, Items: items}}, nil
	}
	return []ir.Block{ir.BulletList{Items: items}}, nil
}

// Coalesce groups every maximal run of same-kind list items into one
// ListGroup. Other blocks pass through in order.
func Coalesce(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	var current *ListGroup
	for _, b := range blocks {
		kind, isItem := listKinds[b.Base().Raw.Type]
		if !isItem {
			current = nil
			out = append(out, b)
			continue
		}
		if current == nil || current.Kind != kind {
			base := b.Base()
			current = &ListGroup{
				BaseBlock: BaseBlock{Conv: base.Conv, Page: base.Page, Type: string(kind), loaded: true},
				Kind:      kind,
			}
			out = append(out, current)
		}
		current.Items = append(current.Items, b)
	}
	return out
}

// ChildrenOf returns the blocks nested directly under b, looking through
// list groups.
func ChildrenOf(b Block) []Block {
	if g, ok := b.(*ListGroup); ok {
		return g.Items
	}
	return b.Base().Children
}
