// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// PassThroughBlock renders only its children. Columns and column lists use
// it since the output formats have no layout grid.
type PassThroughBlock struct {
	BaseBlock
}

// NewPassThroughBlock constructs a container block.
func NewPassThroughBlock(ctx context.Context, a BlockArgs) (*PassThroughBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	return &PassThroughBlock{BaseBlock: base}, nil
}

// NoopBlock produces no output and never fetches children.
type NoopBlock struct {
	BaseBlock
}

// NewNoopBlock constructs a block that is skipped.
func NewNoopBlock(ctx context.Context, a BlockArgs) (*NoopBlock, error) {
	a.GetChildren = false
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	return &NoopBlock{BaseBlock: base}, nil
}

// ToTree returns nothing.
func (b *NoopBlock) ToTree(context.Context) ([]ir.Block, error) { return nil, nil }

// WarningBlock produces no output and logs that its type is not supported.
type WarningBlock struct {
	BaseBlock
}

// NewWarningBlock constructs an unsupported block.
func NewWarningBlock(ctx context.Context, a BlockArgs) (*WarningBlock, error) {
	a.GetChildren = false
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	return &WarningBlock{BaseBlock: base}, nil
}

// ToTree logs a warning and returns nothing.
func (b *WarningBlock) ToTree(context.Context) ([]ir.Block, error) {
	b.Conv.log.Warn().Str("type", b.Type).Str("block", b.NotionURL()).Msg("block type is not supported, skipping it")
	return nil, nil
}

// TableBlock is a simple table whose rows are its children.
type TableBlock struct {
	BaseBlock
	Width           int
	HasColumnHeader bool
	HasRowHeader    bool
}

// NewTableBlock constructs a table.
func NewTableBlock(ctx context.Context, a BlockArgs) (*TableBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	var data struct {
		Width           int  `json:"table_width"`
		HasColumnHeader bool `json:"has_column_header"`
		HasRowHeader    bool `json:"has_row_header"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &TableBlock{
		BaseBlock:       base,
		Width:           data.Width,
		HasColumnHeader: data.HasColumnHeader,
		HasRowHeader:    data.HasRowHeader,
	}, nil
}

// TableRower is implemented by blocks that form one table row.
type TableRower interface {
	ToRow(ctx context.Context) (ir.Row, error)
}

// ToTree emits the table. With a column header the first row becomes the
// head; with a row header the first column is marked as a header column.
func (b *TableBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	if err := b.LoadChildren(ctx); err != nil {
		return nil, err
	}
	rows := make([]ir.Row, 0, len(b.Children))
	for _, child := range b.Children {
		r, ok := child.(TableRower)
		if !ok {
			return nil, fmt.Errorf("table %s has a %s child, want table_row", b.ID, child.Base().Type)
		}
		row, err := r.ToRow(ctx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	t := ir.Table{Columns: make([]ir.ColSpec, b.Width)}
	if b.HasColumnHeader && len(rows) > 0 {
		t.Head, rows = rows[:1], rows[1:]
	}
	if b.HasRowHeader {
		t.RowHeadColumns = 1
	}
	t.Body = rows
	return []ir.Block{t}, nil
}

// TableRowBlock is one table row.
type TableRowBlock struct {
	BaseBlock
	Cells []*RichTextArray
}

// NewTableRowBlock constructs a table row.
func NewTableRowBlock(ctx context.Context, a BlockArgs) (*TableRowBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &TableRowBlock{BaseBlock: base}
	var data struct {
		Cells [][]notion.RichText `json:"cells"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	for _, cell := range data.Cells {
		rt, err := a.Conv.WrapRichTextArray(ctx, cell, b)
		if err != nil {
			return nil, err
		}
		b.Cells = append(b.Cells, rt)
	}
	return b, nil
}

// ToRow emits one cell per column. Line breaks inside a cell are kept as
// hard breaks.
func (b *TableRowBlock) ToRow(ctx context.Context) (ir.Row, error) {
	row := ir.Row{Cells: make([]ir.Cell, 0, len(b.Cells))}
	for _, cell := range b.Cells {
		ns, err := cell.ToTree(ctx)
		if err != nil {
			return ir.Row{}, err
		}
		for i, n := range ns {
			if _, ok := n.(ir.SoftBreak); ok {
				ns[i] = ir.LineBreak{}
			}
		}
		row.Cells = append(row.Cells, ir.Cell{Blocks: []ir.Block{ir.Plain{Inlines: ns}}})
	}
	return row, nil
}

// ToTree emits a headless one-row table for rows found outside a table.
func (b *TableRowBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	row, err := b.ToRow(ctx)
	if err != nil {
		return nil, err
	}
	return []ir.Block{ir.Table{Columns: make([]ir.ColSpec, len(row.Cells)), Body: []ir.Row{row}}}, nil
}

// SyncedBlock is either an original synced block or a reference to one.
// References render the original's children. A reference whose original
// is not shared with the integration has no children and renders nothing.
type SyncedBlock struct {
	BaseBlock
	SyncedFromID string
	Shared       bool
	Recursive    bool
}

// NewSyncedBlock constructs a synced block, resolving references.
func NewSyncedBlock(ctx context.Context, a BlockArgs) (*SyncedBlock, error) {
	var data struct {
		SyncedFrom *struct {
			BlockID string `json:"block_id"`
		} `json:"synced_from"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	if data.SyncedFrom == nil {
		base, err := NewBaseBlock(ctx, a)
		if err != nil {
			return nil, err
		}
		return &SyncedBlock{BaseBlock: base, Shared: true}, nil
	}

	getChildren := a.GetChildren
	a.GetChildren = false
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &SyncedBlock{BaseBlock: base, SyncedFromID: data.SyncedFrom.BlockID, Shared: a.Raw.HasChildren}
	if a.Raw.Parent != nil && canonicalID(a.Raw.Parent.ID()) == canonicalID(b.SyncedFromID) {
		b.Recursive = true
	}
	if getChildren && b.Shared && !b.Recursive {
		children, err := a.Conv.GetChildBlocks(ctx, b.SyncedFromID, b.Page, true)
		if err != nil {
			return nil, err
		}
		b.SetChildren(children)
	}
	return b, nil
}

// IsOriginal reports whether this is the source of a synced group.
func (b *SyncedBlock) IsOriginal() bool { return b.SyncedFromID == "" }

// ToTree renders the synced children.
func (b *SyncedBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	if !b.Shared {
		b.Conv.log.Warn().Str("block", b.NotionURL()).Msg("synced block original is not shared with the integration, skipping it")
		return nil, nil
	}
	if b.Recursive {
		b.Conv.log.Warn().Str("block", b.NotionURL()).Msg("synced block references its own parent, skipping it")
		return nil, nil
	}
	if !b.IsOriginal() && !b.loaded {
		children, err := b.Conv.GetChildBlocks(ctx, b.SyncedFromID, b.Page, true)
		if err != nil {
			return nil, err
		}
		b.SetChildren(children)
	}
	return b.ChildrenToTree(ctx)
}

// LinkToPageBlock links to another page or database by title.
type LinkToPageBlock struct {
	BaseBlock
	LinkType string
	TargetID string
}

// NewLinkToPageBlock constructs a page link.
func NewLinkToPageBlock(ctx context.Context, a BlockArgs) (*LinkToPageBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	var data struct {
		Type       string `json:"type"`
		PageID     string `json:"page_id"`
		DatabaseID string `json:"database_id"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b := &LinkToPageBlock{BaseBlock: base, LinkType: data.Type}
	switch data.Type {
	case "page_id":
		b.TargetID = data.PageID
	case "database_id":
		b.TargetID = data.DatabaseID
	default:
		return nil, fmt.Errorf("link_to_page %s: unknown link type %q", b.ID, data.Type)
	}
	return b, nil
}

// ToTree emits the target's title. Targets that cannot be read produce a
// warning and nothing else.
func (b *LinkToPageBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	var title *RichTextArray
	if b.LinkType == "page_id" {
		page, err := b.Conv.GetPage(ctx, b.TargetID)
		if err != nil && !notion.IsPermissionError(err) {
			return nil, err
		}
		if page != nil {
			title = page.Title()
		}
	} else {
		db, err := b.Conv.GetDatabase(ctx, b.TargetID)
		if err != nil && !notion.IsPermissionError(err) {
			return nil, err
		}
		if db != nil {
			title = db.Title
		}
	}
	if title == nil {
		b.Conv.log.Warn().Str("block", b.NotionURL()).Str("target", b.TargetID).Msg("linked page is missing or not shared with the integration, skipping it")
		return nil, nil
	}
	ns, err := title.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	return []ir.Block{ir.Para{Inlines: ns}}, nil
}

// ChildPageBlock is a page nested in another page. Its body is rendered
// inline; the title is carried by the page's own metadata.
type ChildPageBlock struct {
	BaseBlock
	Title string
}

// NewChildPageBlock constructs a child page.
func NewChildPageBlock(ctx context.Context, a BlockArgs) (*ChildPageBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	var data struct {
		Title string `json:"title"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &ChildPageBlock{BaseBlock: base, Title: data.Title}, nil
}

// TableOfContentsBlock lists the page's headings. It renders nothing until
// the page has supplied the headings with SetHeaders.
type TableOfContentsBlock struct {
	BaseBlock
	headers []ir.Header
}

// NewTableOfContentsBlock constructs a table of contents.
func NewTableOfContentsBlock(ctx context.Context, a BlockArgs) (*TableOfContentsBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	return &TableOfContentsBlock{BaseBlock: base}, nil
}

// SetHeaders supplies the headings to list.
func (b *TableOfContentsBlock) SetHeaders(headers []ir.Header) { b.headers = headers }

// ToTree emits a nested ordered list of links to the headings.
func (b *TableOfContentsBlock) ToTree(context.Context) ([]ir.Block, error) {
	if len(b.headers) == 0 {
		return nil, nil
	}
	base := b.headers[0].Level
	var valid []ir.Header
	for _, h := range b.headers {
		if h.Level < base {
			b.Conv.log.Warn().Str("block", b.NotionURL()).Str("header", ir.Stringify(h.Inlines)).
				Msg("heading is shallower than the first heading, leaving it out of the table of contents")
			continue
		}
		valid = append(valid, h)
	}
	items, _ := b.section(valid, base)
	return []ir.Block{ir.OrderedList{Start: 1, Items: items}}, nil
}

// section builds the items for headings at level, consuming headings until
// one shallower than level appears. It returns the items and how many
// headings it consumed.
func (b *TableOfContentsBlock) section(headers []ir.Header, level int) ([][]ir.Block, int) {
	var items [][]ir.Block
	i := 0
	for i < len(headers) {
		h := headers[i]
		switch {
		case h.Level < level:
			return items, i
		case h.Level > level:
			b.warnSkipped(h)
			i++
			continue
		}
		link := ir.Link{Content: h.Inlines, URL: "#" + h.ID}
		item := []ir.Block{ir.Plain{Inlines: []ir.Inline{link}}}
		i++
		for i < len(headers) && headers[i].Level > level+1 {
			b.warnSkipped(headers[i])
			i++
		}
		if i < len(headers) && headers[i].Level == level+1 {
			sub, n := b.section(headers[i:], level+1)
			i += n
			if len(sub) > 0 {
				item = append(item, ir.OrderedList{Start: 1, Items: sub})
			}
		}
		items = append(items, item)
	}
	return items, i
}

func (b *TableOfContentsBlock) warnSkipped(h ir.Header) {
	b.Conv.log.Warn().Str("block", b.NotionURL()).Str("header", ir.Stringify(h.Inlines)).
		Msg("heading skips a level, leaving it out of the table of contents")
}
