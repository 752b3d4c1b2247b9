// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"net/url"
	"path"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// mediaBlock holds the file and caption shared by image, file, pdf, audio
// and video blocks.
type mediaBlock struct {
	BaseBlock
	File    *File
	Caption *RichTextArray
}

func newMediaBlock(ctx context.Context, a BlockArgs, owner Block) (*mediaBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	m := &mediaBlock{BaseBlock: base}
	var raw notion.File
	if err := a.Raw.DecodeData(&raw); err != nil {
		return nil, err
	}
	if m.File, err = WrapFile(raw); err != nil {
		return nil, err
	}
	if m.Caption, err = a.Conv.WrapRichTextArray(ctx, raw.Caption, owner); err != nil {
		return nil, err
	}
	return m, nil
}

// URL returns where the output should point: a local copy for hosted files,
// the original URL for external ones.
func (m *mediaBlock) URL(ctx context.Context) (string, error) {
	if m.File.Type == "file" {
		return m.Conv.DownloadFile(ctx, m.File.URL, m.Page, m.ID)
	}
	return m.File.URL, nil
}

// withCaption emits content alone, or as a one-column table whose header is
// the content and whose body is the caption.
func (m *mediaBlock) withCaption(ctx context.Context, content []ir.Inline) ([]ir.Block, error) {
	if m.Caption.Len() == 0 {
		return []ir.Block{ir.Para{Inlines: content}}, nil
	}
	caption, err := m.Caption.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	return []ir.Block{ir.Table{
		Columns: []ir.ColSpec{{}},
		Head:    []ir.Row{{Cells: []ir.Cell{{Blocks: []ir.Block{ir.Plain{Inlines: content}}}}}},
		Body:    []ir.Row{{Cells: []ir.Cell{{Blocks: []ir.Block{ir.Plain{Inlines: caption}}}}}},
	}}, nil
}

// ImageBlock is an image. A caption becomes the alt text and makes the
// image a figure.
type ImageBlock struct {
	*mediaBlock
}

// NewImageBlock constructs an image.
func NewImageBlock(ctx context.Context, a BlockArgs) (*ImageBlock, error) {
	b := &ImageBlock{}
	m, err := newMediaBlock(ctx, a, b)
	if err != nil {
		return nil, err
	}
	b.mediaBlock = m
	return b, nil
}

// ToTree emits the image in its own paragraph.
func (b *ImageBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	u, err := b.URL(ctx)
	if err != nil {
		return nil, err
	}
	caption, err := b.Caption.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	img := ir.Image{Alt: caption, URL: u, Figure: len(caption) > 0}
	return []ir.Block{ir.Para{Inlines: []ir.Inline{img}}}, nil
}

// FileBlock is an attached file, rendered as a link labeled with its name.
type FileBlock struct {
	*mediaBlock
}

// NewFileBlock constructs a file attachment.
func NewFileBlock(ctx context.Context, a BlockArgs) (*FileBlock, error) {
	b := &FileBlock{}
	m, err := newMediaBlock(ctx, a, b)
	if err != nil {
		return nil, err
	}
	b.mediaBlock = m
	return b, nil
}

// Name returns the file's display name: its own name, else the last path
// segment of its URL.
func (b *FileBlock) Name() string {
	if b.File.Name != "" {
		return b.File.Name
	}
	if u, err := url.Parse(b.File.URL); err == nil && u.Path != "" && u.Path != "/" {
		return path.Base(u.Path)
	}
	return b.File.URL
}

// ToTree emits a link to the file, captioned if there is a caption.
func (b *FileBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	u, err := b.URL(ctx)
	if err != nil {
		return nil, err
	}
	return b.withCaption(ctx, []ir.Inline{ir.Link{Content: []ir.Inline{ir.Str{Text: b.Name()}}, URL: u}})
}

// ContentBlock is a pdf, audio or video block, rendered as a link to the
// media.
type ContentBlock struct {
	*mediaBlock
}

// NewContentBlock constructs a pdf, audio or video block.
func NewContentBlock(ctx context.Context, a BlockArgs) (*ContentBlock, error) {
	b := &ContentBlock{}
	m, err := newMediaBlock(ctx, a, b)
	if err != nil {
		return nil, err
	}
	b.mediaBlock = m
	return b, nil
}

// ToTree emits a link to the media, captioned if there is a caption.
func (b *ContentBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	u, err := b.URL(ctx)
	if err != nil {
		return nil, err
	}
	return b.withCaption(ctx, []ir.Inline{ir.Link{Content: []ir.Inline{ir.Str{Text: u}}, URL: u}})
}

// BookmarkBlock is a saved link.
type BookmarkBlock struct {
	BaseBlock
	URL     string
	Caption *RichTextArray
}

// NewBookmarkBlock constructs a bookmark.
func NewBookmarkBlock(ctx context.Context, a BlockArgs) (*BookmarkBlock, error) {
	base, err := NewBaseBlock(ctx, a)
	if err != nil {
		return nil, err
	}
	b := &BookmarkBlock{BaseBlock: base}
	var data struct {
		URL     string            `json:"url"`
		Caption []notion.RichText `json:"caption"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	b.URL = data.URL
	if b.Caption, err = a.Conv.WrapRichTextArray(ctx, data.Caption, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ToTree emits a link labeled with the caption, or the URL itself.
func (b *BookmarkBlock) ToTree(ctx context.Context) ([]ir.Block, error) {
	if b.URL == "" {
		return nil, nil
	}
	label, err := b.Caption.ToTree(ctx)
	if err != nil {
		return nil, err
	}
	if len(label) == 0 {
		label = []ir.Inline{ir.Str{Text: b.URL}}
	}
	return []ir.Block{ir.Para{Inlines: []ir.Inline{ir.Link{Content: label, URL: b.URL}}}}, nil
}
