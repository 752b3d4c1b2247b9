// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/notion"
	"github.com/pdiddy/n2y/internal/plugins"
	"github.com/pdiddy/n2y/pkg/types"
)

// Failure is one export that did not complete.
type Failure struct {
	Output string
	Err    error
}

// BatchResult summarizes a Run.
type BatchResult struct {
	// Exported lists the outputs written.
	Exported []string
	// SkippedPages counts database rows written to no file.
	SkippedPages int
	Failed       []Failure
}

// Total returns the number of exports attempted.
func (r *BatchResult) Total() int {
	return len(r.Exported) + len(r.Failed)
}

// HasFailures reports whether any export failed.
func (r *BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Summary is a one-line account of the run.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("Export summary: %d exported, %d failed (total: %d), %d page(s) skipped",
		len(r.Exported), len(r.Failed), r.Total(), r.SkippedPages)
}

// Run executes each export in order. Plugins are reloaded per export. A
// failing export is logged and recorded; the rest still run.
func Run(ctx context.Context, conv *convert.Converter, exports []types.ExportConfig) *BatchResult {
	log := conv.Logger()
	result := &BatchResult{}
	for _, e := range exports {
		log.Info().Str("output", e.Output).Str("node_type", string(e.NodeType)).Msg("exporting")
		skipped, err := runOne(ctx, conv, e)
		if err != nil {
			log.Error().Err(err).Str("output", e.Output).Msg("export failed")
			result.Failed = append(result.Failed, Failure{Output: e.Output, Err: err})
			continue
		}
		result.Exported = append(result.Exported, e.Output)
		result.SkippedPages += skipped
	}
	return result
}

func runOne(ctx context.Context, conv *convert.Converter, e types.ExportConfig) (int, error) {
	ps, err := plugins.Lookup(e.Plugins)
	if err != nil {
		return 0, err
	}
	if err := conv.LoadPlugins(ps...); err != nil {
		return 0, err
	}

	if e.NodeType == types.NodePage {
		p, err := conv.GetPage(ctx, e.ID)
		if err != nil {
			return 0, err
		}
		if p == nil {
			return 0, notFound("page", e.ID)
		}
		doc, err := Page(ctx, p, e)
		if err != nil {
			return 0, err
		}
		return 0, writeFile(e.Output, doc)
	}

	db, err := conv.GetDatabase(ctx, e.ID)
	if err != nil {
		return 0, err
	}
	if db == nil {
		return 0, notFound("database", e.ID)
	}
	switch e.NodeType {
	case types.NodeDatabaseAsYAML:
		rows, err := DatabaseToYAML(ctx, db, e)
		if err != nil {
			return 0, err
		}
		y, err := yaml.Marshal(rows)
		if err != nil {
			return 0, fmt.Errorf("encoding database %s: %w", e.ID, err)
		}
		return 0, writeFile(e.Output, string(y))
	case types.NodeDatabaseAsFiles:
		counts, err := DatabaseToFiles(ctx, db, e.Output, e)
		return counts.Skipped(), err
	}
	return 0, fmt.Errorf("unknown node_type %q", e.NodeType)
}

func notFound(kind, id string) error {
	link := "https://www.notion.so/" + strings.ReplaceAll(id, "-", "")
	return fmt.Errorf("unable to find %s with id %q (%s); perhaps the integration does not have permission to access it: %w",
		kind, id, link, notion.ErrObjectNotFound)
}
