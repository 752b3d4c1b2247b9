// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

const sampleConfig = `
media_root: media
media_url: https://example.com/media
export_defaults:
  plugins: [deepheaders]
  id_property: id
exports:
  - id: 5f18c7d7eda44ed19bd1c2b8e29c6bb0
    node_type: page
    output: out/page.md
  - id: 5f18c7d7-eda4-4ed1-9bd1-c2b8e29c6bb0
    node_type: database_as_files
    output: out/rows
    format: html
    plugins: []
    yaml_front_matter: false
    property_map:
      Name: title
`

func TestConfig_Resolved(t *testing.T) {
	var c Config
	require.NoError(t, yaml.Unmarshal([]byte(sampleConfig), &c))
	require.NoError(t, c.Validate())

	exports := c.Resolved()
	require.Len(t, exports, 2)

	page := exports[0]
	assert.Equal(t, "gfm", page.Format)
	assert.Equal(t, []string{"deepheaders"}, page.Plugins)
	assert.Equal(t, "id", page.IDProperty)
	assert.Equal(t, "notion_url", page.URLProperty)
	assert.True(t, page.FrontMatter())

	rows := exports[1]
	assert.Equal(t, "html", rows.Format)
	assert.Empty(t, rows.Plugins)
	assert.False(t, rows.FrontMatter())
	assert.Equal(t, map[string]string{"Name": "title"}, rows.PropertyMap)
}

func TestConfig_Validate(t *testing.T) {
	c := Config{Exports: []ExportConfig{
		{ID: "not-an-id", NodeType: NodePage, Output: "a.md"},
		{ID: "5f18c7d7eda44ed19bd1c2b8e29c6bb0", NodeType: "spreadsheet", Output: "b.md"},
		{ID: "5f18c7d7eda44ed19bd1c2b8e29c6bb0", NodeType: NodeDatabaseAsYAML},
	}}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export 0: invalid object id")
	assert.Contains(t, err.Error(), `export 1: unknown node_type "spreadsheet"`)
	assert.Contains(t, err.Error(), "export 2: output is required")
}

func TestExportConfig_FrontMatterDefaultsOn(t *testing.T) {
	assert.True(t, ExportConfig{}.FrontMatter())
}
