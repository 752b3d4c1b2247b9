// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"

	"github.com/pdiddy/n2y/internal/notion"
)

// NodeType selects what an export reads and how it writes it.
type NodeType string

const (
	// NodePage exports one page to one file.
	NodePage NodeType = "page"
	// NodeDatabaseAsYAML exports every row of a database into one YAML list.
	NodeDatabaseAsYAML NodeType = "database_as_yaml"
	// NodeDatabaseAsFiles exports every row of a database to its own file.
	NodeDatabaseAsFiles NodeType = "database_as_files"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	switch t {
	case NodePage, NodeDatabaseAsYAML, NodeDatabaseAsFiles:
		return true
	}
	return false
}

// ExportConfig describes one export. Fields left unset inherit from the
// configuration's export_defaults.
type ExportConfig struct {
	// ID is the page or database id, hyphenated or not.
	ID string `mapstructure:"id" yaml:"id"`

	NodeType NodeType `mapstructure:"node_type" yaml:"node_type"`

	// Output is a file path, or a directory for database_as_files.
	Output string `mapstructure:"output" yaml:"output"`

	// Format is the output format (gfm, markdown, plain, html, json).
	Format        string   `mapstructure:"format" yaml:"format,omitempty"`
	FormatOptions []string `mapstructure:"format_options" yaml:"format_options,omitempty"`

	// Plugins are enabled by name, in order.
	Plugins []string `mapstructure:"plugins" yaml:"plugins,omitempty"`

	// IDProperty and URLProperty name the metadata keys that receive the
	// page id and URL. Empty disables them.
	IDProperty  string `mapstructure:"id_property" yaml:"id_property,omitempty"`
	URLProperty string `mapstructure:"url_property" yaml:"url_property,omitempty"`

	// ContentProperty, for database_as_yaml, names the key holding each
	// row's rendered body. Empty omits the body.
	ContentProperty string `mapstructure:"content_property" yaml:"content_property,omitempty"`

	YAMLFrontMatter *bool `mapstructure:"yaml_front_matter" yaml:"yaml_front_matter,omitempty"`

	// FilenameTemplate builds database_as_files names from {Property}
	// placeholders. {TITLE} is always available.
	FilenameTemplate string `mapstructure:"filename_template" yaml:"filename_template,omitempty"`

	NotionFilter any `mapstructure:"notion_filter" yaml:"notion_filter,omitempty"`
	NotionSorts  any `mapstructure:"notion_sorts" yaml:"notion_sorts,omitempty"`

	// PropertyMap renames properties in the output: old name to new name.
	PropertyMap map[string]string `mapstructure:"property_map" yaml:"property_map,omitempty"`
}

// FrontMatter reports whether page exports get a YAML header.
func (e ExportConfig) FrontMatter() bool {
	return e.YAMLFrontMatter == nil || *e.YAMLFrontMatter
}

// Config is the whole configuration file.
type Config struct {
	// MediaRoot is the directory downloaded media is written to.
	MediaRoot string `mapstructure:"media_root" yaml:"media_root"`

	// MediaURL prefixes the names of downloaded media in the output.
	MediaURL string `mapstructure:"media_url" yaml:"media_url"`

	ExportDefaults ExportConfig   `mapstructure:"export_defaults" yaml:"export_defaults"`
	Exports        []ExportConfig `mapstructure:"exports" yaml:"exports"`
}

// DefaultExport returns the built-in export defaults.
func DefaultExport() ExportConfig {
	yes := true
	return ExportConfig{
		Format:          "gfm",
		IDProperty:      "notion_id",
		URLProperty:     "notion_url",
		YAMLFrontMatter: &yes,
		PropertyMap:     map[string]string{},
	}
}

// MergeDefaults fills every unset field of e from d.
func (e ExportConfig) MergeDefaults(d ExportConfig) ExportConfig {
	if e.NodeType == "" {
		e.NodeType = d.NodeType
	}
	if e.Format == "" {
		e.Format = d.Format
	}
	if e.FormatOptions == nil {
		e.FormatOptions = d.FormatOptions
	}
	if e.Plugins == nil {
		e.Plugins = d.Plugins
	}
	if e.IDProperty == "" {
		e.IDProperty = d.IDProperty
	}
	if e.URLProperty == "" {
		e.URLProperty = d.URLProperty
	}
	if e.ContentProperty == "" {
		e.ContentProperty = d.ContentProperty
	}
	if e.YAMLFrontMatter == nil {
		e.YAMLFrontMatter = d.YAMLFrontMatter
	}
	if e.FilenameTemplate == "" {
		e.FilenameTemplate = d.FilenameTemplate
	}
	if e.NotionFilter == nil {
		e.NotionFilter = d.NotionFilter
	}
	if e.NotionSorts == nil {
		e.NotionSorts = d.NotionSorts
	}
	if e.PropertyMap == nil {
		e.PropertyMap = d.PropertyMap
	}
	return e
}

// Resolved returns the exports with defaults applied: the configured
// export_defaults first, then the built-in ones.
func (c Config) Resolved() []ExportConfig {
	defaults := c.ExportDefaults.MergeDefaults(DefaultExport())
	out := make([]ExportConfig, len(c.Exports))
	for i, e := range c.Exports {
		out[i] = e.MergeDefaults(defaults)
	}
	return out
}

// Validate reports every problem with the resolved exports.
func (c Config) Validate() error {
	var errs []error
	for i, e := range c.Resolved() {
		if _, err := notion.NormalizeID(e.ID); err != nil {
			errs = append(errs, fmt.Errorf("export %d: %w", i, err))
		}
		if !e.NodeType.Valid() {
			errs = append(errs, fmt.Errorf("export %d: unknown node_type %q", i, e.NodeType))
		}
		if e.Output == "" {
			errs = append(errs, fmt.Errorf("export %d: output is required", i))
		}
	}
	return errors.Join(errs...)
}
