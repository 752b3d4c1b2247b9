// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns raw Notion records into typed nodes and those nodes
// into an ir tree. Every block, rich text span, mention and property value is
// constructed through a per-category registry, so plugins can override the
// handling of any type tag without touching the rest of the engine.
//
// A Converter memoizes pages and databases by id: requesting the same object
// twice during one run yields the same *Page or *Database.
package convert

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
	"github.com/pdiddy/n2y/internal/registry"
	"github.com/pdiddy/n2y/internal/render"
)

// API is the subset of the Notion client the converter reads through.
type API interface {
	GetPage(ctx context.Context, id string) (*notion.Page, error)
	GetDatabase(ctx context.Context, id string) (*notion.Database, error)
	GetBlock(ctx context.Context, id string) (*notion.Block, error)
	GetBlockChildren(ctx context.Context, id string) ([]notion.Block, error)
	QueryDatabase(ctx context.Context, id string, filter, sorts any) ([]notion.Page, error)
	GetPagePropertyItems(ctx context.Context, pageID, propertyID string) ([]notion.PropertyItem, error)
}

// Renderer serializes an ir tree.
type Renderer interface {
	Render(doc ir.Document, format string, opts []string) (string, error)
}

// Class aliases for each registry category.
type (
	BlockClass         = registry.Class[BlockArgs, Block]
	RichTextClass      = registry.Class[RichTextArgs, RichText]
	MentionClass       = registry.Class[MentionArgs, Mention]
	PropertyValueClass = registry.Class[PropertyValueArgs, PropertyValue]
)

// Plugin is a named set of class overrides, keyed by type tag.
type Plugin struct {
	Name           string
	Blocks         map[string]BlockClass
	RichTexts      map[string]RichTextClass
	Mentions       map[string]MentionClass
	PropertyValues map[string]PropertyValueClass
}

// Converter builds typed nodes from raw records.
type Converter struct {
	api        API
	log        zerolog.Logger
	renderer   Renderer
	downloader Downloader

	blocks         *registry.Registry[BlockArgs, Block]
	richTexts      *registry.Registry[RichTextArgs, RichText]
	mentions       *registry.Registry[MentionArgs, Mention]
	propertyValues *registry.Registry[PropertyValueArgs, PropertyValue]

	entities   *gocache.Cache
	pluginData map[string]any
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for warnings and debug traces.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) { c.log = l }
}

// WithRenderer replaces the default renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) { c.renderer = r }
}

// WithDownloader sets where Notion-hosted media is stored. Without one,
// hosted URLs are emitted as-is.
func WithDownloader(d Downloader) Option {
	return func(c *Converter) { c.downloader = d }
}

// New creates a Converter reading through api with only the built-in
// classes registered.
func New(api API, opts ...Option) *Converter {
	c := &Converter{
		api:            api,
		log:            zerolog.Nop(),
		renderer:       render.New(),
		downloader:     passthroughDownloader{},
		blocks:         registry.New[BlockArgs, Block]("block"),
		richTexts:      registry.New[RichTextArgs, RichText]("rich text"),
		mentions:       registry.New[MentionArgs, Mention]("mention"),
		propertyValues: registry.New[PropertyValueArgs, PropertyValue]("property value"),
		entities:       gocache.New(gocache.NoExpiration, 0),
		pluginData:     make(map[string]any),
	}
	for _, o := range opts {
		o(c)
	}
	c.registerDefaults()
	return c
}

// API returns the client the converter reads through.
func (c *Converter) API() API { return c.api }

// Logger returns the converter's logger.
func (c *Converter) Logger() *zerolog.Logger { return &c.log }

// Renderer returns the renderer used for text-valued properties.
func (c *Converter) Renderer() Renderer { return c.renderer }

// Registries groups the class chains of a Converter.
type Registries struct {
	Blocks         *registry.Registry[BlockArgs, Block]
	RichTexts      *registry.Registry[RichTextArgs, RichText]
	Mentions       *registry.Registry[MentionArgs, Mention]
	PropertyValues *registry.Registry[PropertyValueArgs, PropertyValue]
}

// Registries returns the converter's class chains.
func (c *Converter) Registries() Registries {
	return Registries{Blocks: c.blocks, RichTexts: c.richTexts, Mentions: c.mentions, PropertyValues: c.propertyValues}
}

// PluginData is shared scratch space for plugins, keyed by plugin name.
// It is cleared by LoadPlugins.
func (c *Converter) PluginData() map[string]any { return c.pluginData }

// LoadPlugins resets every registry to the built-in classes and registers
// ps in order. The identity cache is flushed since nodes built under the
// previous plugin set are stale.
func (c *Converter) LoadPlugins(ps ...Plugin) error {
	c.blocks.Reset()
	c.richTexts.Reset()
	c.mentions.Reset()
	c.propertyValues.Reset()
	c.entities.Flush()
	c.pluginData = make(map[string]any)

	for _, p := range ps {
		if err := registerAll(c.blocks, p.Blocks); err != nil {
			return fmt.Errorf("loading plugin %s: %w", p.Name, err)
		}
		if err := registerAll(c.richTexts, p.RichTexts); err != nil {
			return fmt.Errorf("loading plugin %s: %w", p.Name, err)
		}
		if err := registerAll(c.mentions, p.Mentions); err != nil {
			return fmt.Errorf("loading plugin %s: %w", p.Name, err)
		}
		if err := registerAll(c.propertyValues, p.PropertyValues); err != nil {
			return fmt.Errorf("loading plugin %s: %w", p.Name, err)
		}
		c.log.Debug().Str("plugin", p.Name).Msg("loaded plugin")
	}
	return nil
}

func registerAll[A, T any](r *registry.Registry[A, T], classes map[string]registry.Class[A, T]) error {
	for tag, cls := range classes {
		if err := r.Register(tag, cls); err != nil {
			return err
		}
	}
	return nil
}

// WrapBlock constructs the typed node for raw. When getChildren is set, the
// block's children are fetched and wrapped too.
func (c *Converter) WrapBlock(ctx context.Context, raw notion.Block, page *Page, getChildren bool) (Block, error) {
	c.log.Debug().Str("type", raw.Type).Str("id", raw.ID).Msg("instantiating block")
	return c.blocks.Resolve(ctx, raw.Type, BlockArgs{Conv: c, Raw: raw, Page: page, GetChildren: getChildren})
}

// GetBlock fetches and wraps one block with its children.
func (c *Converter) GetBlock(ctx context.Context, id string, page *Page) (Block, error) {
	raw, err := c.api.GetBlock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting block %s: %w", id, err)
	}
	return c.WrapBlock(ctx, *raw, page, true)
}

// GetChildBlocks fetches the children of the block with id parentID, wraps
// each one and coalesces runs of list items into list groups.
func (c *Converter) GetChildBlocks(ctx context.Context, parentID string, page *Page, getChildren bool) ([]Block, error) {
	raws, err := c.api.GetBlockChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("getting children of %s: %w", parentID, err)
	}
	return c.WrapChildren(ctx, raws, page, getChildren)
}

// WrapChildren wraps a sibling sequence and coalesces list items.
func (c *Converter) WrapChildren(ctx context.Context, raws []notion.Block, page *Page, getChildren bool) ([]Block, error) {
	blocks := make([]Block, 0, len(raws))
	for _, raw := range raws {
		b, err := c.WrapBlock(ctx, raw, page, getChildren)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return Coalesce(blocks), nil
}

// WrapRichText constructs the typed node for one span.
func (c *Converter) WrapRichText(ctx context.Context, raw notion.RichText, block Block) (RichText, error) {
	return c.richTexts.Resolve(ctx, raw.Type, RichTextArgs{Conv: c, Raw: raw, Block: block})
}

// WrapRichTextArray constructs a RichTextArray from raw spans.
func (c *Converter) WrapRichTextArray(ctx context.Context, raws []notion.RichText, block Block) (*RichTextArray, error) {
	a := &RichTextArray{conv: c, block: block, Items: make([]RichText, 0, len(raws))}
	for _, raw := range raws {
		rt, err := c.WrapRichText(ctx, raw, block)
		if err != nil {
			return nil, err
		}
		a.Items = append(a.Items, rt)
	}
	return a, nil
}

// WrapMention constructs the typed node for a mention payload.
func (c *Converter) WrapMention(ctx context.Context, raw notion.Mention, span *BaseRichText) (Mention, error) {
	return c.mentions.Resolve(ctx, raw.Type, MentionArgs{Conv: c, Raw: raw, Span: span})
}

// WrapPropertyValue constructs the typed node for one property value.
func (c *Converter) WrapPropertyValue(ctx context.Context, name string, raw notion.PropertyValue, page *Page) (PropertyValue, error) {
	return c.propertyValues.Resolve(ctx, raw.Type, PropertyValueArgs{Conv: c, Name: name, Raw: raw, Page: page})
}

func pageKey(id string) string     { return "page:" + canonicalID(id) }
func databaseKey(id string) string { return "database:" + canonicalID(id) }

func canonicalID(id string) string {
	if n, err := notion.NormalizeID(id); err == nil {
		return n
	}
	return id
}

// GetPage returns the page with id, fetching it on first use. A page that
// does not exist or is not shared with the integration yields nil, nil.
func (c *Converter) GetPage(ctx context.Context, id string) (*Page, error) {
	if v, ok := c.entities.Get(pageKey(id)); ok {
		return v.(*Page), nil
	}
	raw, err := c.api.GetPage(ctx, id)
	if notion.IsNotFound(err) {
		c.log.Debug().Str("id", id).Msg("page not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting page %s: %w", id, err)
	}
	return c.WrapPage(ctx, raw)
}

// WrapPage returns the Page for raw, reusing an existing instance if the
// page was seen before.
func (c *Converter) WrapPage(ctx context.Context, raw *notion.Page) (*Page, error) {
	if v, ok := c.entities.Get(pageKey(raw.ID)); ok {
		return v.(*Page), nil
	}
	p, err := newPage(ctx, c, raw)
	if err != nil {
		return nil, err
	}
	c.entities.Set(pageKey(raw.ID), p, gocache.NoExpiration)
	return p, nil
}

// GetDatabase returns the database with id, fetching it on first use. A
// database that does not exist yields nil, nil.
func (c *Converter) GetDatabase(ctx context.Context, id string) (*Database, error) {
	if v, ok := c.entities.Get(databaseKey(id)); ok {
		return v.(*Database), nil
	}
	raw, err := c.api.GetDatabase(ctx, id)
	if notion.IsNotFound(err) {
		c.log.Debug().Str("id", id).Msg("database not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting database %s: %w", id, err)
	}
	d, err := newDatabase(ctx, c, raw)
	if err != nil {
		return nil, err
	}
	c.entities.Set(databaseKey(raw.ID), d, gocache.NoExpiration)
	return d, nil
}

// DownloadFile stores a Notion-hosted file and returns the URL to link to.
func (c *Converter) DownloadFile(ctx context.Context, url string, page *Page, blockID string) (string, error) {
	return c.downloader.DownloadFile(ctx, url, page, blockID)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
