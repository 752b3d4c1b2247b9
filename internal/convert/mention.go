// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"

	"github.com/pdiddy/n2y/internal/ir"
	"github.com/pdiddy/n2y/internal/notion"
)

// MentionArgs is what a mention class is constructed from. Span is the
// enclosing mention span.
type MentionArgs struct {
	Conv *Converter
	Raw  notion.Mention
	Span *BaseRichText
}

// Mention is the referenced object inside a mention span.
type Mention interface {
	ToTree(ctx context.Context) ([]ir.Inline, error)
}

// UserMention references a person or bot.
type UserMention struct {
	Span *BaseRichText
	User *User
}

// NewUserMention constructs a user mention.
func NewUserMention(_ context.Context, a MentionArgs) (*UserMention, error) {
	var raw notion.User
	if err := a.Raw.DecodeData(&raw); err != nil {
		return nil, err
	}
	return &UserMention{Span: a.Span, User: wrapUser(raw)}, nil
}

// ToTree emits the user's name, or the span text for unnamed users.
func (m *UserMention) ToTree(context.Context) ([]ir.Inline, error) {
	if m.User.Name == "" {
		return Tokenize(m.Span.PlainText), nil
	}
	return Tokenize(m.User.Name), nil
}

// PageMention references a page.
type PageMention struct {
	Conv   *Converter
	Span   *BaseRichText
	PageID string
}

// NewPageMention constructs a page mention.
func NewPageMention(_ context.Context, a MentionArgs) (*PageMention, error) {
	var data struct {
		ID string `json:"id"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &PageMention{Conv: a.Conv, Span: a.Span, PageID: data.ID}, nil
}

// ToTree emits the page title. Pages the integration cannot read fall back
// to the span text.
func (m *PageMention) ToTree(ctx context.Context) ([]ir.Inline, error) {
	page, err := m.Conv.GetPage(ctx, m.PageID)
	if notion.IsPermissionError(err) {
		m.Conv.log.Warn().Str("id", m.PageID).Msg("mentioned page is not shared with the integration")
		return Tokenize(m.Span.PlainText), nil
	}
	if err != nil {
		return nil, err
	}
	if page == nil || page.Title() == nil {
		return Tokenize(m.Span.PlainText), nil
	}
	return page.Title().ToTree(ctx)
}

// DatabaseMention references a database.
type DatabaseMention struct {
	Conv       *Converter
	Span       *BaseRichText
	DatabaseID string
}

// NewDatabaseMention constructs a database mention.
func NewDatabaseMention(_ context.Context, a MentionArgs) (*DatabaseMention, error) {
	var data struct {
		ID string `json:"id"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &DatabaseMention{Conv: a.Conv, Span: a.Span, DatabaseID: data.ID}, nil
}

// ToTree emits the database title, falling back to the span text.
func (m *DatabaseMention) ToTree(ctx context.Context) ([]ir.Inline, error) {
	db, err := m.Conv.GetDatabase(ctx, m.DatabaseID)
	if notion.IsPermissionError(err) {
		m.Conv.log.Warn().Str("id", m.DatabaseID).Msg("mentioned database is not shared with the integration")
		return Tokenize(m.Span.PlainText), nil
	}
	if err != nil {
		return nil, err
	}
	if db == nil {
		return Tokenize(m.Span.PlainText), nil
	}
	return db.Title.ToTree(ctx)
}

// DateMention references a date or date range.
type DateMention struct {
	Date DateRange
}

// NewDateMention constructs a date mention.
func NewDateMention(_ context.Context, a MentionArgs) (*DateMention, error) {
	var d DateRange
	if err := a.Raw.DecodeData(&d); err != nil {
		return nil, err
	}
	return &DateMention{Date: d}, nil
}

// ToTree emits "start" or "start to end".
func (m *DateMention) ToTree(context.Context) ([]ir.Inline, error) {
	return Tokenize(m.Date.String()), nil
}

// LinkPreviewMention is a URL shown as a preview card.
type LinkPreviewMention struct {
	Span *BaseRichText
	URL  string
}

// NewLinkPreviewMention constructs a link preview mention.
func NewLinkPreviewMention(_ context.Context, a MentionArgs) (*LinkPreviewMention, error) {
	var data struct {
		URL string `json:"url"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &LinkPreviewMention{Span: a.Span, URL: data.URL}, nil
}

// ToTree emits a link to the previewed URL.
func (m *LinkPreviewMention) ToTree(context.Context) ([]ir.Inline, error) {
	text := m.Span.PlainText
	if text == "" {
		text = m.URL
	}
	return []ir.Inline{ir.Link{Content: Tokenize(text), URL: m.URL}}, nil
}

// LinkMention is a URL shown with its page title.
type LinkMention struct {
	Href  string
	Title string
}

// NewLinkMention constructs a link mention.
func NewLinkMention(_ context.Context, a MentionArgs) (*LinkMention, error) {
	var data struct {
		Href  string `json:"href"`
		Title string `json:"title"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &LinkMention{Href: data.Href, Title: data.Title}, nil
}

// ToTree emits a link labeled with the title, or the URL itself.
func (m *LinkMention) ToTree(context.Context) ([]ir.Inline, error) {
	text := m.Title
	if text == "" {
		text = m.Href
	}
	return []ir.Inline{ir.Link{Content: Tokenize(text), URL: m.Href}}, nil
}
