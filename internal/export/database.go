// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/render"
	"github.com/pdiddy/n2y/pkg/types"
)

// DatabaseToYAML returns one entry per row: its properties and, when the
// export names a content property, the rendered body.
func DatabaseToYAML(ctx context.Context, db *convert.Database, cfg types.ExportConfig) ([]map[string]any, error) {
	if _, ok := db.Schema[cfg.ContentProperty]; ok && cfg.ContentProperty != "" {
		db.Conv.Logger().Warn().Str("property", cfg.ContentProperty).
			Msg("content property is shadowing an existing property with the same name")
	}
	rows, err := db.ChildrenFiltered(ctx, cfg.NotionFilter, cfg.NotionSorts)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, p := range rows {
		entry, err := PageProperties(ctx, p, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.ContentProperty != "" {
			body, err := Body(ctx, p, cfg)
			if err != nil {
				return nil, err
			}
			if body == "" {
				entry[cfg.ContentProperty] = nil
			} else {
				entry[cfg.ContentProperty] = body
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// FileCounts tallies what DatabaseToFiles did with each row.
type FileCounts struct {
	Written   int
	Duplicate int
	Unnamed   int
}

// Skipped is the number of rows that produced no file.
func (c FileCounts) Skipped() int { return c.Duplicate + c.Unnamed }

// DatabaseToFiles writes each row to its own file in dir. Rows whose name
// is empty or was already used are skipped.
func DatabaseToFiles(ctx context.Context, db *convert.Database, dir string, cfg types.ExportConfig) (FileCounts, error) {
	var counts FileCounts
	log := db.Conv.Logger()
	rows, err := db.ChildrenFiltered(ctx, cfg.NotionFilter, cfg.NotionSorts)
	if err != nil {
		return counts, err
	}
	seen := make(map[string]bool, len(rows))
	for _, p := range rows {
		name, err := Filename(ctx, p, cfg)
		if err != nil {
			return counts, err
		}
		switch {
		case name == "":
			counts.Unnamed++
			continue
		case seen[name]:
			log.Warn().Str("file", name).Msg("skipping page since its file name has been used")
			counts.Duplicate++
			continue
		}
		seen[name] = true
		doc, err := Page(ctx, p, cfg)
		if err != nil {
			return counts, err
		}
		if err := writeFile(filepath.Join(dir, name), doc); err != nil {
			return counts, err
		}
		counts.Written++
	}
	if counts.Duplicate > 0 {
		log.Info().Int("count", counts.Duplicate).Msg("duplicate page(s) skipped")
	}
	if counts.Unnamed > 0 {
		log.Info().Int("count", counts.Unnamed).Msg("unnamed page(s) skipped")
	}
	return counts, nil
}

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Filename returns the row's file name: the title plus the format's
// extension, or the export's filename template with each {Property}
// replaced by its plain value. {TITLE} is always the title. A template
// naming an unknown property falls back to the title. The result is
// sanitized; "" means the row has no usable name.
func Filename(ctx context.Context, p *convert.Page, cfg types.ExportConfig) (string, error) {
	title := ""
	if t := p.Title(); t != nil {
		title = t.PlainText()
	}
	byTitle := func() string {
		if strings.TrimSpace(title) == "" {
			return ""
		}
		return convert.SanitizeFilename(title + "." + render.Extension(cfg.Format))
	}
	if cfg.FilenameTemplate == "" {
		return byTitle(), nil
	}

	props, err := p.PropertiesToValues(ctx, "", nil)
	if err != nil {
		return "", err
	}
	if _, ok := props["TITLE"]; !ok {
		props["TITLE"] = title
	}
	var missing []string
	name := placeholder.ReplaceAllStringFunc(cfg.FilenameTemplate, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := props[key]
		if !ok {
			missing = append(missing, key)
			return ""
		}
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
	if len(missing) > 0 {
		p.Conv.Logger().Warn().Str("template", cfg.FilenameTemplate).Strs("valid", p.PropertyNames()).
			Msg("invalid filename property, falling back to the title")
		return byTitle(), nil
	}
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	return convert.SanitizeFilename(name), nil
}
