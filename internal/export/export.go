// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes converted pages and databases to disk: single pages
// with an optional YAML front matter header, databases as one YAML list, or
// databases as one file per row. Run drives a list of configured exports,
// isolating failures so one bad export does not stop the rest.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/render"
	"github.com/pdiddy/n2y/pkg/types"
)

// PageProperties returns the page's property values rendered in the export
// format, with the id and URL properties added and property_map renames
// applied.
func PageProperties(ctx context.Context, p *convert.Page, cfg types.ExportConfig) (map[string]any, error) {
	log := p.Conv.Logger()
	props, err := p.PropertiesToValues(ctx, cfg.Format, cfg.FormatOptions)
	if err != nil {
		return nil, err
	}
	if cfg.IDProperty != "" {
		if _, ok := props[cfg.IDProperty]; ok {
			log.Warn().Str("property", cfg.IDProperty).Msg("id property is shadowing an existing property with the same name")
		}
		props[cfg.IDProperty] = p.ID
	}
	if cfg.URLProperty != "" {
		if _, ok := props[cfg.URLProperty]; ok {
			log.Warn().Str("property", cfg.URLProperty).Msg("url property is shadowing an existing property with the same name")
		}
		props[cfg.URLProperty] = p.URL
	}
	for from, to := range cfg.PropertyMap {
		v, ok := props[from]
		if !ok {
			log.Warn().Str("property", from).Str("page", p.URL).Str("to", to).Msg("property not found, skipping remapping")
			continue
		}
		delete(props, from)
		props[to] = v
	}
	return props, nil
}

// Body renders the page content without front matter.
func Body(ctx context.Context, p *convert.Page, cfg types.ExportConfig) (string, error) {
	doc, err := p.ToTree(ctx)
	if err != nil {
		return "", fmt.Errorf("converting page %s: %w", p.ID, err)
	}
	if n := countHeaderlessTables(doc.Blocks); n > 0 && render.IsMarkdown(cfg.Format) {
		p.Conv.Logger().Warn().Int("tables", n).Str("page", p.URL).
			Msg("tables will present empty headers to keep the Markdown valid")
	}
	out, err := p.Conv.Renderer().Render(doc, cfg.Format, cfg.FormatOptions)
	if err != nil {
		var se *render.StructureError
		if errors.As(err, &se) {
			p.Conv.Logger().Error().Str("page", p.URL).Str("node", render.Dump(se.Node)).Msg("renderer rejected the document")
		}
		return "", fmt.Errorf("rendering page %s: %w", p.ID, err)
	}
	return out, nil
}

// Page renders the page, prefixed by its properties as YAML front matter
// when the export asks for it.
func Page(ctx context.Context, p *convert.Page, cfg types.ExportConfig) (string, error) {
	body, err := Body(ctx, p, cfg)
	if err != nil {
		return "", err
	}
	if !cfg.FrontMatter() {
		return body, nil
	}
	props, err := PageProperties(ctx, p, cfg)
	if err != nil {
		return "", err
	}
	y, err := yaml.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("encoding front matter of page %s: %w", p.ID, err)
	}
	return "---\n" + string(y) + "---\n" + body, nil
}

func countHeaderlessTables(blocks []ir.Block) int {
	n := 0
	for _, b := range blocks {
		switch v := b.(type) {
		case ir.Table:
			if len(v.Head) == 0 {
				n++
			}
		case ir.BlockQuote:
			n += countHeaderlessTables(v.Blocks)
		case ir.Div:
			n += countHeaderlessTables(v.Blocks)
		case ir.BulletList:
			for _, item := range v.Items {
				n += countHeaderlessTables(item)
			}
		case ir.OrderedList:
			for _, item := range v.Items {
				n += countHeaderlessTables(item)
			}
		}
	}
	return n
}

// writeFile writes data to path, creating parent directories.
func writeFile(path, data string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
