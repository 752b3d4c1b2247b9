// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/n2y/internal/notion"
)

// Database is a Notion database. Its rows are fetched lazily and memoized
// per filter and sort.
type Database struct {
	Conv           *Converter
	Raw            *notion.Database
	ID             string
	URL            string
	Title          *RichTextArray
	Description    *RichTextArray
	Archived       bool
	CreatedTime    time.Time
	LastEditedTime time.Time
	Parent         notion.Parent
	Schema         map[string]notion.Property

	rows map[string][]*Page
}

func newDatabase(ctx context.Context, c *Converter, raw *notion.Database) (*Database, error) {
	d := &Database{
		Conv:           c,
		Raw:            raw,
		ID:             raw.ID,
		URL:            raw.URL,
		Archived:       raw.Archived,
		CreatedTime:    parseTime(raw.CreatedTime),
		LastEditedTime: parseTime(raw.LastEditedTime),
		Parent:         raw.Parent,
		Schema:         raw.Properties,
		rows:           make(map[string][]*Page),
	}
	var err error
	if d.Title, err = c.WrapRichTextArray(ctx, raw.Title, nil); err != nil {
		return nil, fmt.Errorf("database %s title: %w", raw.ID, err)
	}
	if d.Description, err = c.WrapRichTextArray(ctx, raw.Description, nil); err != nil {
		return nil, fmt.Errorf("database %s description: %w", raw.ID, err)
	}
	return d, nil
}

// Children returns every row.
func (d *Database) Children(ctx context.Context) ([]*Page, error) {
	return d.ChildrenFiltered(ctx, nil, nil)
}

// ChildrenFiltered returns the rows matching filter in sorts order. Both
// are passed to the query endpoint as-is; nil means none.
func (d *Database) ChildrenFiltered(ctx context.Context, filter, sorts any) ([]*Page, error) {
	key, err := json.Marshal([]any{filter, sorts})
	if err != nil {
		return nil, fmt.Errorf("database %s: encoding query: %w", d.ID, err)
	}
	if rows, ok := d.rows[string(key)]; ok {
		return rows, nil
	}
	raws, err := d.Conv.api.QueryDatabase(ctx, d.ID, filter, sorts)
	if err != nil {
		return nil, fmt.Errorf("querying database %s: %w", d.ID, err)
	}
	rows := make([]*Page, 0, len(raws))
	for i := range raws {
		p, err := d.Conv.WrapPage(ctx, &raws[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, p)
	}
	d.rows[string(key)] = rows
	return rows, nil
}
