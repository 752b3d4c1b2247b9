// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ir defines the format-agnostic document tree that the conversion
// engine produces and the renderers consume. The node set is closed: inline
// nodes implement Inline, structural nodes implement Block.
package ir

import "strings"

// Inline is a node that lives inside a line of text.
type Inline interface {
	inline()
}

// Block is a structural node: a paragraph, list, table, and so on.
type Block interface {
	block()
}

// Str is a single word. It never contains whitespace.
type Str struct {
	Text string
}

// Space is one inter-word space.
type Space struct{}

// SoftBreak is a line break in the source that renderers may reflow.
type SoftBreak struct{}

// LineBreak is a hard line break.
type LineBreak struct{}

// Strong is bold text.
type Strong struct {
	Content []Inline
}

// Emph is italic text.
type Emph struct {
	Content []Inline
}

// Underline is underlined text.
type Underline struct {
	Content []Inline
}

// Strikeout is struck-through text.
type Strikeout struct {
	Content []Inline
}

// Code is verbatim inline code. Whitespace inside Text is significant.
type Code struct {
	Text string
}

// Math is a TeX expression, rendered inline or as display math.
type Math struct {
	Display bool
	Expr    string
}

// Link wraps Content in a hyperlink to URL.
type Link struct {
	Content []Inline
	URL     string
	Title   string
}

// Image references an image by URL. Figure marks images with a caption.
type Image struct {
	Alt    []Inline
	URL    string
	Title  string
	Figure bool
}

// Note is a footnote whose body is a list of blocks.
type Note struct {
	Blocks []Block
}

// RawInline is passed through untouched when rendering to Format.
type RawInline struct {
	Format string
	Text   string
}

func (Str) inline()       {}
func (Space) inline()     {}
func (SoftBreak) inline() {}
func (LineBreak) inline() {}
func (Strong) inline()    {}
func (Emph) inline()      {}
func (Underline) inline() {}
func (Strikeout) inline() {}
func (Code) inline()      {}
func (Math) inline()      {}
func (Link) inline()      {}
func (Image) inline()     {}
func (Note) inline()      {}
func (RawInline) inline() {}

// Para is a paragraph.
type Para struct {
	Inlines []Inline
}

// Plain is text without paragraph spacing, used for tight list items and
// table cells.
type Plain struct {
	Inlines []Inline
}

// Header is a section heading. ID is an optional anchor.
type Header struct {
	Level   int
	ID      string
	Inlines []Inline
}

// CodeBlock is a fenced block of code in an optional Language.
type CodeBlock struct {
	Language string
	Text     string
}

// RawBlock is passed through untouched when rendering to Format.
type RawBlock struct {
	Format string
	Text   string
}

// BlockQuote is a quotation.
type BlockQuote struct {
	Blocks []Block
}

// BulletList is an unordered list; each item is a list of blocks.
type BulletList struct {
	Items [][]Block
}

// OrderedList is a numbered list starting at Start.
type OrderedList struct {
	Start int
	Items [][]Block
}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

// Alignment of a table column.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ColSpec describes one table column. A zero Width means the default width.
type ColSpec struct {
	Align Alignment
	Width float64
}

// Cell is one table cell.
type Cell struct {
	Blocks []Block
}

// Row is one table row.
type Row struct {
	Cells []Cell
}

// Table is a grid of rows split into header and body. RowHeadColumns is the
// number of leading columns that act as row headers.
type Table struct {
	Caption        []Inline
	Columns        []ColSpec
	RowHeadColumns int
	Head           []Row
	Body           []Row
}

// Div groups blocks under a set of classes.
type Div struct {
	Classes []string
	Blocks  []Block
}

func (Para) block()           {}
func (Plain) block()          {}
func (Header) block()         {}
func (CodeBlock) block()      {}
func (RawBlock) block()       {}
func (BlockQuote) block()     {}
func (BulletList) block()     {}
func (OrderedList) block()    {}
func (HorizontalRule) block() {}
func (Table) block()          {}
func (Div) block()            {}

// Document is a complete tree with metadata.
type Document struct {
	Meta   map[string]any
	Blocks []Block
}

// IsBlank reports whether n is an inter-word space or a soft line break.
func IsBlank(n Inline) bool {
	switch n.(type) {
	case Space, SoftBreak:
		return true
	}
	return false
}

// AllBlank reports whether every node in ns is blank. An empty slice is blank.
func AllBlank(ns []Inline) bool {
	for _, n := range ns {
		if !IsBlank(n) {
			return false
		}
	}
	return true
}

// Stringify flattens inline nodes to plain text, dropping all styling.
func Stringify(ns []Inline) string {
	var b strings.Builder
	stringify(&b, ns)
	return b.String()
}

func stringify(b *strings.Builder, ns []Inline) {
	for _, n := range ns {
		switch v := n.(type) {
		case Str:
			b.WriteString(v.Text)
		case Space, SoftBreak, LineBreak:
			b.WriteByte(' ')
		case Strong:
			stringify(b, v.Content)
		case Emph:
			stringify(b, v.Content)
		case Underline:
			stringify(b, v.Content)
		case Strikeout:
			stringify(b, v.Content)
		case Code:
			b.WriteString(v.Text)
		case Math:
			b.WriteString(v.Expr)
		case Link:
			stringify(b, v.Content)
		case Image:
			stringify(b, v.Alt)
		case RawInline:
			b.WriteString(v.Text)
		}
	}
}

// Text tokenizes s into Str, Space and SoftBreak nodes.
func Text(s string) []Inline {
	var out []Inline
	for _, f := range strings.Fields(s) {
		if len(out) > 0 {
			out = append(out, Space{})
		}
		out = append(out, Str{Text: f})
	}
	return out
}
