// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plugins holds the optional conversion extensions that exports can
// enable by name. Each plugin is a convert.Plugin overriding one or more type
// tags; overrides that do not apply to a given input decline with
// registry.ErrUseNext so the built-in behavior takes over.
package plugins

import (
	"context"
	"sort"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/registry"
)

var builtin = map[string]func() convert.Plugin{
	"deepheaders":          DeepHeaders,
	"rawcodeblocks":        RawCodeBlocks,
	"removecallouts":       RemoveCallouts,
	"expandbluetoggles":    ExpandBlueToggles,
	"linkedheaders":        LinkedHeaders,
	"footnotes":            Footnotes,
	"internallinks":        InternalLinks,
	"quoteblock":           QuoteBlocks,
	"expandlinktopages":    ExpandLinkToPages,
	"downloadfileproperty": DownloadFileProperty,
}

// shallow returns args that build a block without its children, so a class
// can inspect the block and decline before anything below it is fetched.
func shallow(a convert.BlockArgs) convert.BlockArgs {
	a.GetChildren = false
	return a
}

// adopt loads the children of an accepted block when a asked for them.
func adopt(ctx context.Context, b convert.Block, a convert.BlockArgs) error {
	if !a.GetChildren {
		return nil
	}
	return b.Base().LoadChildren(ctx)
}

// Names lists the available plugins in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the plugins for names, in order. An unknown name is a
// *registry.PluginError.
func Lookup(names []string) ([]convert.Plugin, error) {
	out := make([]convert.Plugin, 0, len(names))
	for _, n := range names {
		mk, ok := builtin[n]
		if !ok {
			return nil, &registry.PluginError{Category: "plugin", Tag: n, Reason: "no plugin with this name"}
		}
		out = append(out, mk())
	}
	return out, nil
}

// Override is a type tag whose chain has classes on top of the built-in one.
type Override struct {
	Category string
	Tag      string
	// Chain lists the class names, built-in first.
	Chain []string
}

// Overrides lists every overridden tag of conv, grouped by category and
// sorted by tag.
func Overrides(conv *convert.Converter) []Override {
	r := conv.Registries()
	var out []Override
	out = appendOverrides(out, r.Blocks)
	out = appendOverrides(out, r.RichTexts)
	out = appendOverrides(out, r.Mentions)
	out = appendOverrides(out, r.PropertyValues)
	return out
}

func appendOverrides[A, T any](out []Override, r *registry.Registry[A, T]) []Override {
	for _, tag := range r.Tags() {
		if chain := r.Chain(tag); len(chain) > 1 {
			out = append(out, Override{Category: r.Category(), Tag: tag, Chain: chain})
		}
	}
	return out
}
