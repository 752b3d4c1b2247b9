// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"encoding/json"
	"fmt"
)

// Tagged is the common shape of a tagged-union record: a Type tag plus a
// payload stored under the key named by the tag. The payload is kept raw and
// decoded by whichever handler claims the tag, so each handler names exactly
// the fields it reads and unknown fields are ignored.
type Tagged struct {
	Type string
	Data json.RawMessage
}

// DecodeData unmarshals the payload into v. An absent payload is not an error.
func (t Tagged) DecodeData(v any) error {
	if len(t.Data) == 0 || string(t.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(t.Data, v); err != nil {
		return fmt.Errorf("decoding %q payload: %w", t.Type, err)
	}
	return nil
}

// IsNull reports whether the payload is missing or JSON null.
func (t Tagged) IsNull() bool {
	return len(t.Data) == 0 || string(t.Data) == "null"
}

// splitTagged pulls the payload keyed by the record's own type out of raw.
func splitTagged(raw []byte) (string, json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", nil, err
	}
	var tag string
	if t, ok := fields["type"]; ok {
		if err := json.Unmarshal(t, &tag); err != nil {
			return "", nil, fmt.Errorf("decoding type tag: %w", err)
		}
	}
	return tag, fields[tag], nil
}

// joinTagged adds the payload under key tag to the JSON object base.
func joinTagged(base []byte, tag string, data json.RawMessage) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	if tag != "" && len(data) > 0 {
		fields[tag] = data
	}
	return json.Marshal(fields)
}

// Parent identifies the container of a page, database or block.
type Parent struct {
	Type       string `json:"type"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// ID returns the identifier of the parent, or "" for the workspace.
func (p Parent) ID() string {
	switch p.Type {
	case "page_id":
		return p.PageID
	case "database_id":
		return p.DatabaseID
	case "block_id":
		return p.BlockID
	}
	return ""
}

// Block is one raw block record.
type Block struct {
	Object         string  `json:"object"`
	ID             string  `json:"id"`
	Parent         *Parent `json:"parent,omitempty"`
	CreatedTime    string  `json:"created_time,omitempty"`
	LastEditedTime string  `json:"last_edited_time,omitempty"`
	CreatedBy      *User   `json:"created_by,omitempty"`
	LastEditedBy   *User   `json:"last_edited_by,omitempty"`
	HasChildren    bool    `json:"has_children"`
	Archived       bool    `json:"archived"`
	Tagged         `json:"-"`
}

type blockAlias struct {
	Object         string  `json:"object"`
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Parent         *Parent `json:"parent,omitempty"`
	CreatedTime    string  `json:"created_time,omitempty"`
	LastEditedTime string  `json:"last_edited_time,omitempty"`
	CreatedBy      *User   `json:"created_by,omitempty"`
	LastEditedBy   *User   `json:"last_edited_by,omitempty"`
	HasChildren    bool    `json:"has_children"`
	Archived       bool    `json:"archived"`
}

// UnmarshalJSON decodes the shared block fields and keeps the type payload raw.
func (b *Block) UnmarshalJSON(raw []byte) error {
	var a blockAlias
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	_, data, err := splitTagged(raw)
	if err != nil {
		return err
	}
	*b = Block{
		Object: a.Object, ID: a.ID, Parent: a.Parent,
		CreatedTime: a.CreatedTime, LastEditedTime: a.LastEditedTime,
		CreatedBy: a.CreatedBy, LastEditedBy: a.LastEditedBy,
		HasChildren: a.HasChildren, Archived: a.Archived,
		Tagged: Tagged{Type: a.Type, Data: data},
	}
	return nil
}

// MarshalJSON writes the block back in wire shape.
func (b Block) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(blockAlias{
		Object: b.Object, ID: b.ID, Type: b.Type, Parent: b.Parent,
		CreatedTime: b.CreatedTime, LastEditedTime: b.LastEditedTime,
		CreatedBy: b.CreatedBy, LastEditedBy: b.LastEditedBy,
		HasChildren: b.HasChildren, Archived: b.Archived,
	})
	if err != nil {
		return nil, err
	}
	return joinTagged(base, b.Type, b.Data)
}

// Annotations are the styling flags of a rich text span.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// RichText is one raw rich text span.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Href        *string     `json:"href"`
	Annotations Annotations `json:"annotations"`
	Tagged      `json:"-"`
}

type richTextAlias struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        *string     `json:"href"`
	Annotations Annotations `json:"annotations"`
}

// UnmarshalJSON decodes a span and keeps its text/mention/equation payload raw.
func (r *RichText) UnmarshalJSON(raw []byte) error {
	var a richTextAlias
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	_, data, err := splitTagged(raw)
	if err != nil {
		return err
	}
	*r = RichText{
		PlainText: a.PlainText, Href: a.Href, Annotations: a.Annotations,
		Tagged: Tagged{Type: a.Type, Data: data},
	}
	return nil
}

// MarshalJSON writes the span back in wire shape.
func (r RichText) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(richTextAlias{
		Type: r.Type, PlainText: r.PlainText, Href: r.Href, Annotations: r.Annotations,
	})
	if err != nil {
		return nil, err
	}
	return joinTagged(base, r.Type, r.Data)
}

// HrefString returns the span's link target or "".
func (r RichText) HrefString() string {
	if r.Href == nil {
		return ""
	}
	return *r.Href
}

// Mention is the payload of a mention span: a tagged union over user, page,
// database, date, link_preview and link_mention.
type Mention struct {
	Tagged
}

// UnmarshalJSON decodes the mention tag and keeps its payload raw.
func (m *Mention) UnmarshalJSON(raw []byte) error {
	tag, data, err := splitTagged(raw)
	if err != nil {
		return err
	}
	m.Tagged = Tagged{Type: tag, Data: data}
	return nil
}

// MarshalJSON writes the mention back in wire shape.
func (m Mention) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(struct {
		Type string `json:"type"`
	}{m.Type})
	if err != nil {
		return nil, err
	}
	return joinTagged(base, m.Type, m.Data)
}

// PropertyValue is one raw property value of a page. HasMore is set on
// relation values whose inline list was truncated.
type PropertyValue struct {
	ID      string `json:"id"`
	HasMore bool   `json:"has_more,omitempty"`
	Tagged  `json:"-"`
}

// UnmarshalJSON decodes a property value and keeps its payload raw.
func (p *PropertyValue) UnmarshalJSON(raw []byte) error {
	var a struct {
		ID      string `json:"id"`
		HasMore bool   `json:"has_more"`
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	tag, data, err := splitTagged(raw)
	if err != nil {
		return err
	}
	*p = PropertyValue{ID: a.ID, HasMore: a.HasMore, Tagged: Tagged{Type: tag, Data: data}}
	return nil
}

// MarshalJSON writes the property value back in wire shape.
func (p PropertyValue) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		HasMore bool   `json:"has_more,omitempty"`
	}{p.ID, p.Type, p.HasMore})
	if err != nil {
		return nil, err
	}
	data := p.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return joinTagged(base, p.Type, data)
}

// Property is a database schema entry.
type Property struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tagged `json:"-"`
}

// UnmarshalJSON decodes a schema entry and keeps its configuration raw.
func (p *Property) UnmarshalJSON(raw []byte) error {
	var a struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	tag, data, err := splitTagged(raw)
	if err != nil {
		return err
	}
	*p = Property{ID: a.ID, Name: a.Name, Tagged: Tagged{Type: tag, Data: data}}
	return nil
}

// MarshalJSON writes the schema entry back in wire shape.
func (p Property) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}{p.ID, p.Name, p.Type})
	if err != nil {
		return nil, err
	}
	return joinTagged(base, p.Type, p.Data)
}

// PropertyItem is one entry of the paginated page-property endpoint.
type PropertyItem struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Tagged `json:"-"`
}

// UnmarshalJSON decodes a property item and keeps its payload raw.
func (p *PropertyItem) UnmarshalJSON(raw []byte) error {
	var a struct {
		Object string `json:"object"`
		ID     string `json:"id"`
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	tag, data, err := splitTagged(raw)
	if err != nil {
		return err
	}
	*p = PropertyItem{Object: a.Object, ID: a.ID, Tagged: Tagged{Type: tag, Data: data}}
	return nil
}

// MarshalJSON writes the property item back in wire shape.
func (p PropertyItem) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(struct {
		Object string `json:"object"`
		ID     string `json:"id"`
		Type   string `json:"type"`
	}{p.Object, p.ID, p.Type})
	if err != nil {
		return nil, err
	}
	return joinTagged(base, p.Type, p.Data)
}

// User is a person or bot.
type User struct {
	Object    string  `json:"object"`
	ID        string  `json:"id"`
	Type      string  `json:"type,omitempty"`
	Name      string  `json:"name,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Person    *Person `json:"person,omitempty"`
}

// Person holds the person-specific user fields.
type Person struct {
	Email string `json:"email,omitempty"`
}

// FileLink is the URL part of a hosted or external file.
type FileLink struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// File is a file object: hosted ("file") or "external". Media blocks embed
// the same fields next to their caption.
type File struct {
	Type     string     `json:"type"`
	Name     string     `json:"name,omitempty"`
	File     *FileLink  `json:"file,omitempty"`
	External *FileLink  `json:"external,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// Icon is an emoji or a file.
type Icon struct {
	Type     string    `json:"type"`
	Emoji    string    `json:"emoji,omitempty"`
	File     *FileLink `json:"file,omitempty"`
	External *FileLink `json:"external,omitempty"`
}

// Page is one raw page record.
type Page struct {
	Object         string                   `json:"object"`
	ID             string                   `json:"id"`
	CreatedTime    string                   `json:"created_time"`
	LastEditedTime string                   `json:"last_edited_time"`
	CreatedBy      User                     `json:"created_by"`
	LastEditedBy   User                     `json:"last_edited_by"`
	Archived       bool                     `json:"archived"`
	URL            string                   `json:"url"`
	Parent         Parent                   `json:"parent"`
	Icon           *Icon                    `json:"icon"`
	Cover          *File                    `json:"cover"`
	Properties     map[string]PropertyValue `json:"properties"`
}

// Database is one raw database record.
type Database struct {
	Object         string              `json:"object"`
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	CreatedBy      User                `json:"created_by"`
	LastEditedBy   User                `json:"last_edited_by"`
	Title          []RichText          `json:"title"`
	Description    []RichText          `json:"description,omitempty"`
	Archived       bool                `json:"archived"`
	URL            string              `json:"url"`
	Parent         Parent              `json:"parent"`
	Icon           *Icon               `json:"icon"`
	Cover          *File               `json:"cover"`
	Properties     map[string]Property `json:"properties"`
}

// List is one page of a paginated response.
type List[T any] struct {
	Object     string `json:"object"`
	Results    []T    `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
