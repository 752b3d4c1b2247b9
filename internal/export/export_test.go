// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
	nt "github.com/pdiddy/n2y/internal/notion/notiontest"
	"github.com/pdiddy/n2y/internal/render"
	"github.com/pdiddy/n2y/pkg/types"
)

type env struct {
	api  *nt.Fake
	conv *convert.Converter
	logs *bytes.Buffer
}

func newEnv(t *testing.T, opts ...convert.Option) *env {
	t.Helper()
	e := &env{api: nt.NewFake(), logs: &bytes.Buffer{}}
	opts = append([]convert.Option{convert.WithLogger(zerolog.New(e.logs))}, opts...)
	e.conv = convert.New(e.api, opts...)
	return e
}

func (e *env) page(t *testing.T, raw *notion.Page, body ...notion.Block) *convert.Page {
	t.Helper()
	e.api.AddPage(raw, body...)
	p, err := e.conv.GetPage(context.Background(), raw.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (e *env) database(t *testing.T, rows ...*notion.Page) *convert.Database {
	t.Helper()
	raw := nt.Database("Rows")
	e.api.AddDatabase(raw, rows...)
	db, err := e.conv.GetDatabase(context.Background(), raw.ID)
	require.NoError(t, err)
	require.NotNil(t, db)
	return db
}

func splitFrontMatter(t *testing.T, doc string) (map[string]any, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(doc, "---\n"), doc)
	header, body, ok := strings.Cut(doc[len("---\n"):], "---\n")
	require.True(t, ok, doc)
	meta := map[string]any{}
	require.NoError(t, yaml.Unmarshal([]byte(header), &meta))
	return meta, body
}

func TestPage_FrontMatter(t *testing.T) {
	e := newEnv(t)
	raw := nt.Page("My Page", nil)
	p := e.page(t, raw, nt.Paragraph("Hello"))

	out, err := Page(context.Background(), p, types.DefaultExport())
	require.NoError(t, err)
	meta, body := splitFrontMatter(t, out)
	assert.Equal(t, map[string]any{"title": "My Page", "notion_id": raw.ID, "notion_url": raw.URL}, meta)
	assert.Equal(t, "Hello\n", body)
}

func TestPage_WithoutFrontMatter(t *testing.T) {
	e := newEnv(t)
	p := e.page(t, nt.Page("My Page", nil), nt.Paragraph("Hello"))
	no := false
	cfg := types.DefaultExport()
	cfg.YAMLFrontMatter = &no

	out, err := Page(context.Background(), p, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", out)
}

func TestPageProperties_ShadowingAndRenames(t *testing.T) {
	e := newEnv(t)
	raw := nt.Page("My Page", map[string]notion.PropertyValue{
		"notion_id": nt.RichTextValue(nt.Span("stale")),
	})
	p := e.page(t, raw)
	cfg := types.DefaultExport()
	cfg.PropertyMap = map[string]string{"title": "name", "Missing": "x"}

	props, err := PageProperties(context.Background(), p, cfg)
	require.NoError(t, err)
	assert.Equal(t, "My Page", props["name"])
	assert.NotContains(t, props, "title")
	assert.NotContains(t, props, "x")
	assert.Equal(t, raw.ID, props["notion_id"])
	assert.Contains(t, e.logs.String(), "id property is shadowing")
	assert.Contains(t, e.logs.String(), "skipping remapping")
}

func TestBody_HeaderlessTableWarning(t *testing.T) {
	e := newEnv(t)
	table := nt.Table(2, false, false)
	e.api.AddChildren(table.ID, nt.TableRow("a", "b"))
	p := e.page(t, nt.Page("Tables", nil), table)

	_, err := Body(context.Background(), p, types.DefaultExport())
	require.NoError(t, err)
	assert.Contains(t, e.logs.String(), "empty headers")

	e.logs.Reset()
	cfg := types.DefaultExport()
	cfg.Format = "html"
	_, err = Body(context.Background(), p, cfg)
	require.NoError(t, err)
	assert.NotContains(t, e.logs.String(), "empty headers")
}

type rejectingRenderer struct{}

func (rejectingRenderer) Render(ir.Document, string, []string) (string, error) {
	return "", &render.StructureError{Format: "gfm", Node: ir.Header{Level: 0}, Reason: "header level must be at least 1"}
}

func TestBody_StructureErrorIsLogged(t *testing.T) {
	e := newEnv(t, convert.WithRenderer(rejectingRenderer{}))
	p := e.page(t, nt.Page("Broken", nil), nt.Paragraph("x"))

	_, err := Body(context.Background(), p, types.DefaultExport())
	var se *render.StructureError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, e.logs.String(), "renderer rejected the document")
	assert.Contains(t, e.logs.String(), "Header")
}

func TestDatabaseToYAML(t *testing.T) {
	e := newEnv(t)
	a := nt.Page("Row A", nil)
	e.api.AddPage(a, nt.Paragraph("Body A"))
	b := nt.Page("Row B", nil)
	e.api.AddPage(b)
	db := e.database(t, a, b)

	cfg := types.DefaultExport()
	cfg.ContentProperty = "content"
	rows, err := DatabaseToYAML(context.Background(), db, cfg)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Row A", rows[0]["title"])
	assert.Equal(t, "Body A\n", rows[0]["content"])
	assert.Equal(t, a.ID, rows[0]["notion_id"])
	assert.Nil(t, rows[1]["content"])
	assert.Contains(t, rows[1], "content")
	assert.NotContains(t, e.logs.String(), "content property is shadowing")

	cfg.ContentProperty = "Name"
	_, err = DatabaseToYAML(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.Contains(t, e.logs.String(), "content property is shadowing")
}

func TestDatabaseToFiles(t *testing.T) {
	e := newEnv(t)
	var rows []*notion.Page
	for _, title := range []string{"Alpha", "Alpha", "", "Beta/Gamma"} {
		r := nt.Page(title, nil)
		e.api.AddPage(r, nt.Paragraph("Body of "+title))
		rows = append(rows, r)
	}
	db := e.database(t, rows...)
	dir := t.TempDir()

	counts, err := DatabaseToFiles(context.Background(), db, dir, types.DefaultExport())
	require.NoError(t, err)
	assert.Equal(t, FileCounts{Written: 2, Duplicate: 1, Unnamed: 1}, counts)
	assert.Equal(t, 2, counts.Skipped())

	data, err := os.ReadFile(filepath.Join(dir, "Alpha.md"))
	require.NoError(t, err)
	meta, body := splitFrontMatter(t, string(data))
	assert.Equal(t, "Alpha", meta["title"])
	assert.Equal(t, "Body of Alpha\n", body)
	assert.FileExists(t, filepath.Join(dir, "Beta-Gamma.md"))
	assert.Contains(t, e.logs.String(), "file name has been used")
}

func TestFilename(t *testing.T) {
	e := newEnv(t)
	p := e.page(t, nt.Page("Doc", map[string]notion.PropertyValue{
		"Slug":  nt.RichTextValue(nt.Span("intro")),
		"Order": nt.PropertyValue("number", 3),
	}))

	tests := []struct {
		name     string
		format   string
		template string
		want     string
		warns    bool
	}{
		{name: "title and extension", format: "gfm", want: "Doc.md"},
		{name: "html extension", format: "html", want: "Doc.html"},
		{name: "template", format: "gfm", template: "{Order}-{Slug}-{TITLE}.md", want: "3-intro-Doc.md"},
		{name: "unknown placeholder falls back", format: "gfm", template: "{Nope}.md", want: "Doc.md", warns: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.logs.Reset()
			cfg := types.DefaultExport()
			cfg.Format = tt.format
			cfg.FilenameTemplate = tt.template
			got, err := Filename(context.Background(), p, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.warns, strings.Contains(e.logs.String(), "invalid filename property"))
		})
	}
}

func TestRun_IsolatesFailures(t *testing.T) {
	e := newEnv(t)
	page := nt.Page("Home", nil)
	e.api.AddPage(page, nt.Paragraph("Welcome"))
	row := nt.Page("Row", nil)
	e.api.AddPage(row)
	dbRaw := nt.Database("Rows")
	e.api.AddDatabase(dbRaw, row)
	dir := t.TempDir()

	base := types.DefaultExport()
	exports := []types.ExportConfig{
		{ID: page.ID, NodeType: types.NodePage, Output: filepath.Join(dir, "home.md")},
		{ID: notion.NewID(), NodeType: types.NodePage, Output: filepath.Join(dir, "missing.md")},
		{ID: dbRaw.ID, NodeType: types.NodeDatabaseAsYAML, Output: filepath.Join(dir, "rows.yml")},
		{ID: page.ID, NodeType: types.NodePage, Output: filepath.Join(dir, "bad.md"), Plugins: []string{"nope"}},
	}
	for i := range exports {
		exports[i] = exports[i].MergeDefaults(base)
	}

	result := Run(context.Background(), e.conv, exports)
	assert.Equal(t, []string{exports[0].Output, exports[2].Output}, result.Exported)
	require.Len(t, result.Failed, 2)
	assert.ErrorIs(t, result.Failed[0].Err, notion.ErrObjectNotFound)
	assert.Contains(t, result.Failed[1].Err.Error(), "nope")
	assert.True(t, result.HasFailures())
	assert.Equal(t, 4, result.Total())
	assert.Equal(t, "Export summary: 2 exported, 2 failed (total: 4), 0 page(s) skipped", result.Summary())

	data, err := os.ReadFile(exports[2].Output)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Row", rows[0]["title"])

	assert.FileExists(t, exports[0].Output)
	assert.NoFileExists(t, exports[1].Output)
}
