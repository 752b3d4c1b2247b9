// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// Page is a Notion page with typed properties. Its body is fetched lazily
// on first use.
type Page struct {
	Conv           *Converter
	Raw            *notion.Page
	ID             string
	URL            string
	Archived       bool
	CreatedTime    time.Time
	LastEditedTime time.Time
	CreatedBy      *User
	LastEditedBy   *User
	Icon           *notion.Icon
	Cover          *File
	Parent         notion.Parent
	Properties     map[string]PropertyValue

	// PluginData is scratch space plugins may attach to the page.
	PluginData map[string]any

	block    Block
	children []*Page
	dbs      []*Database
	walked   bool
}

func newPage(ctx context.Context, c *Converter, raw *notion.Page) (*Page, error) {
	p := &Page{
		Conv:           c,
		Raw:            raw,
		ID:             raw.ID,
		URL:            raw.URL,
		Archived:       raw.Archived,
		CreatedTime:    parseTime(raw.CreatedTime),
		LastEditedTime: parseTime(raw.LastEditedTime),
		CreatedBy:      wrapUser(raw.CreatedBy),
		LastEditedBy:   wrapUser(raw.LastEditedBy),
		Icon:           raw.Icon,
		Parent:         raw.Parent,
		Properties:     make(map[string]PropertyValue, len(raw.Properties)),
		PluginData:     make(map[string]any),
	}
	if raw.Cover != nil {
		cover, err := WrapFile(*raw.Cover)
		if err != nil {
			return nil, fmt.Errorf("page %s cover: %w", raw.ID, err)
		}
		p.Cover = cover
	}
	for name, v := range raw.Properties {
		pv, err := c.WrapPropertyValue(ctx, name, v, p)
		if err != nil {
			return nil, fmt.Errorf("page %s property %q: %w", raw.ID, name, err)
		}
		p.Properties[name] = pv
	}
	return p, nil
}

// TitleProperty returns the name of the title property, or "".
func (p *Page) TitleProperty() string {
	for name, pv := range p.Properties {
		if pv.Base().Type == "title" {
			return name
		}
	}
	return ""
}

// Title returns the page title, or nil if the page has none.
func (p *Page) Title() *RichTextArray {
	name := p.TitleProperty()
	if name == "" {
		return nil
	}
	if t, ok := p.Properties[name].(interface{ Text() *RichTextArray }); ok {
		return t.Text()
	}
	return nil
}

// Block returns the block holding the page body, fetching it on first use.
func (p *Page) Block(ctx context.Context) (Block, error) {
	if p.block == nil {
		b, err := p.Conv.GetBlock(ctx, p.ID, p)
		if err != nil {
			return nil, err
		}
		p.block = b
	}
	return p.block, nil
}

// Children returns the pages and databases nested anywhere in the body.
func (p *Page) Children(ctx context.Context) ([]*Page, []*Database, error) {
	if p.walked {
		return p.children, p.dbs, nil
	}
	root, err := p.Block(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := p.walk(ctx, ChildrenOf(root)); err != nil {
		return nil, nil, err
	}
	p.walked = true
	return p.children, p.dbs, nil
}

func (p *Page) walk(ctx context.Context, blocks []Block) error {
	for _, b := range blocks {
		switch b.Base().Type {
		case "child_page":
			child, err := p.Conv.GetPage(ctx, b.Base().ID)
			if err != nil {
				return err
			}
			if child != nil {
				p.children = append(p.children, child)
			}
		case "child_database":
			db, err := p.Conv.GetDatabase(ctx, b.Base().ID)
			if err != nil {
				return err
			}
			if db != nil {
				p.dbs = append(p.dbs, db)
			}
		}
		if err := p.walk(ctx, ChildrenOf(b)); err != nil {
			return err
		}
	}
	return nil
}

// HeaderSink is implemented by blocks that list the page's headings.
type HeaderSink interface {
	SetHeaders(headers []ir.Header)
}

// ToTree converts the page body to a document whose metadata is the page's
// property values. When the page has a table of contents, the body is
// converted twice: once to collect the headings and once with them.
func (p *Page) ToTree(ctx context.Context) (ir.Document, error) {
	root, err := p.Block(ctx)
	if err != nil {
		return ir.Document{}, err
	}
	blocks, err := root.ToTree(ctx)
	if err != nil {
		return ir.Document{}, err
	}
	sinks := headerSinks(ChildrenOf(root), nil)
	if len(sinks) > 0 {
		var headers []ir.Header
		for _, b := range blocks {
			if h, ok := b.(ir.Header); ok {
				headers = append(headers, h)
			}
		}
		for _, s := range sinks {
			s.SetHeaders(headers)
		}
		if blocks, err = root.ToTree(ctx); err != nil {
			return ir.Document{}, err
		}
	}
	meta, err := p.PropertiesToValues(ctx, "", nil)
	if err != nil {
		return ir.Document{}, err
	}
	return ir.Document{Meta: meta, Blocks: blocks}, nil
}

// headerSinks collects the sinks anywhere under blocks, such as a table of
// contents inside a column or toggle.
func headerSinks(blocks []Block, sinks []HeaderSink) []HeaderSink {
	for _, b := range blocks {
		if s, ok := b.(HeaderSink); ok {
			sinks = append(sinks, s)
		}
		sinks = headerSinks(ChildrenOf(b), sinks)
	}
	return sinks
}

// PropertiesToValues converts every property with ToValue.
func (p *Page) PropertiesToValues(ctx context.Context, format string, opts []string) (map[string]any, error) {
	out := make(map[string]any, len(p.Properties))
	for _, name := range p.PropertyNames() {
		v, err := p.Properties[name].ToValue(ctx, format, opts)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// PropertyNames returns the property names in sorted order.
func (p *Page) PropertyNames() []string {
	names := make([]string, 0, len(p.Properties))
	for name := range p.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
