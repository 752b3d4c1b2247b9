// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"regexp"
	"strings"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// Annotations are the styling flags of one span.
type Annotations struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Code          bool
	Color         string
}

func annotationsFrom(a notion.Annotations) Annotations {
	return Annotations{
		Bold:          a.Bold,
		Italic:        a.Italic,
		Strikethrough: a.Strikethrough,
		Underline:     a.Underline,
		Code:          a.Code,
		Color:         a.Color,
	}
}

// Apply wraps ns in the active styles, innermost first: bold, italic,
// underline, strikethrough. Markdown emphasis cannot open or close on
// whitespace, so for bold, italic and strikethrough the leading and trailing
// blanks are moved outside the wrappers. Underline alone keeps them inside.
// Input made only of blanks is returned unchanged.
func (a Annotations) Apply(ns []ir.Inline) []ir.Inline {
	if ir.AllBlank(ns) {
		return ns
	}
	core := ns
	var lead, trail []ir.Inline
	if a.Bold || a.Italic || a.Strikethrough {
		i := 0
		for i < len(core) && ir.IsBlank(core[i]) {
			i++
		}
		j := len(core)
		for j > i && ir.IsBlank(core[j-1]) {
			j--
		}
		lead, core, trail = core[:i], core[i:j], core[j:]
	}
	styled := append([]ir.Inline(nil), core...)
	if a.Bold {
		styled = []ir.Inline{ir.Strong{Content: styled}}
	}
	if a.Italic {
		styled = []ir.Inline{ir.Emph{Content: styled}}
	}
	if a.Underline {
		styled = []ir.Inline{ir.Underline{Content: styled}}
	}
	if a.Strikethrough {
		styled = []ir.Inline{ir.Strikeout{Content: styled}}
	}
	out := make([]ir.Inline, 0, len(lead)+len(styled)+len(trail))
	out = append(out, lead...)
	out = append(out, styled...)
	return append(out, trail...)
}

var tokenPattern = regexp.MustCompile(`( +)|(\S+)|(\n+)|(\t+)`)

// Tokenize splits text into words and whitespace: every space becomes a
// Space, every newline a SoftBreak and every tab four Spaces.
func Tokenize(text string) []ir.Inline {
	var out []ir.Inline
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] != "":
			for range len(m[1]) {
				out = append(out, ir.Space{})
			}
		case m[2] != "":
			out = append(out, ir.Str{Text: m[2]})
		case m[3] != "":
			for range len(m[3]) {
				out = append(out, ir.SoftBreak{})
			}
		case m[4] != "":
			for range 4 * len(m[4]) {
				out = append(out, ir.Space{})
			}
		}
	}
	return out
}

// isSingleLink reports whether ns is exactly one link.
func isSingleLink(ns []ir.Inline) bool {
	if len(ns) != 1 {
		return false
	}
	_, ok := ns[0].(ir.Link)
	return ok
}

// trimTrailingNewlines strips the newlines a renderer appends.
func trimTrailingNewlines(s string) string {
	return strings.TrimRight(s, "\n")
}
