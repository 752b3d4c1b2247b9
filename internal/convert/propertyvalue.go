// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pdiddy/n2y/internal/notion"
)

// PropertyValueArgs is what a property value class is constructed from.
// Page may be nil for values nested in a rollup.
type PropertyValueArgs struct {
	Conv *Converter
	Name string
	Raw  notion.PropertyValue
	Page *Page
}

// PropertyValue is one typed page property.
type PropertyValue interface {
	Base() *BasePropertyValue
	// ToValue returns a YAML-friendly value. Text-bearing kinds are rendered
	// in format with opts; an empty format means plain text.
	ToValue(ctx context.Context, format string, opts []string) (any, error)
}

// BasePropertyValue holds the fields shared by every property kind.
type BasePropertyValue struct {
	Conv *Converter
	Raw  notion.PropertyValue
	Page *Page
	Name string
	ID   string
	Type string
}

// NewBasePropertyValue fills the shared fields from args.
func NewBasePropertyValue(a PropertyValueArgs) BasePropertyValue {
	return BasePropertyValue{Conv: a.Conv, Raw: a.Raw, Page: a.Page, Name: a.Name, ID: a.Raw.ID, Type: a.Raw.Type}
}

// Base returns the shared fields.
func (p *BasePropertyValue) Base() *BasePropertyValue { return p }

// RichTextPropertyValue is a title or rich_text property.
type RichTextPropertyValue struct {
	BasePropertyValue
	RichText *RichTextArray
}

// NewRichTextPropertyValue constructs a title or rich_text value.
func NewRichTextPropertyValue(ctx context.Context, a PropertyValueArgs) (*RichTextPropertyValue, error) {
	var raw []notion.RichText
	if err := a.Raw.DecodeData(&raw); err != nil {
		return nil, err
	}
	rt, err := a.Conv.WrapRichTextArray(ctx, raw, nil)
	if err != nil {
		return nil, err
	}
	return &RichTextPropertyValue{BasePropertyValue: NewBasePropertyValue(a), RichText: rt}, nil
}

// Text returns the spans.
func (p *RichTextPropertyValue) Text() *RichTextArray { return p.RichText }

// ToValue renders the text in format.
func (p *RichTextPropertyValue) ToValue(ctx context.Context, format string, opts []string) (any, error) {
	return p.RichText.ToValue(ctx, format, opts)
}

// NumberPropertyValue is a number, possibly empty.
type NumberPropertyValue struct {
	BasePropertyValue
	Number *float64
}

// NewNumberPropertyValue constructs a number value.
func NewNumberPropertyValue(_ context.Context, a PropertyValueArgs) (*NumberPropertyValue, error) {
	p := &NumberPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if err := a.Raw.DecodeData(&p.Number); err != nil {
		return nil, err
	}
	return p, nil
}

// ToValue returns the number or nil.
func (p *NumberPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	return numberValue(p.Number), nil
}

func numberValue(n *float64) any {
	if n == nil {
		return nil
	}
	if *n == float64(int64(*n)) {
		return int64(*n)
	}
	return *n
}

type selectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SelectPropertyValue is a select or status property.
type SelectPropertyValue struct {
	BasePropertyValue
	Option *selectOption
}

// NewSelectPropertyValue constructs a select or status value.
func NewSelectPropertyValue(_ context.Context, a PropertyValueArgs) (*SelectPropertyValue, error) {
	p := &SelectPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if err := a.Raw.DecodeData(&p.Option); err != nil {
		return nil, err
	}
	return p, nil
}

// ToValue returns the option name or nil.
func (p *SelectPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	if p.Option == nil {
		return nil, nil
	}
	return p.Option.Name, nil
}

// MultiSelectPropertyValue is a set of options.
type MultiSelectPropertyValue struct {
	BasePropertyValue
	Options []selectOption
}

// NewMultiSelectPropertyValue constructs a multi_select value.
func NewMultiSelectPropertyValue(_ context.Context, a PropertyValueArgs) (*MultiSelectPropertyValue, error) {
	p := &MultiSelectPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if err := a.Raw.DecodeData(&p.Options); err != nil {
		return nil, err
	}
	return p, nil
}

// ToValue returns the option names.
func (p *MultiSelectPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	names := make([]string, len(p.Options))
	for i, o := range p.Options {
		names[i] = o.Name
	}
	return names, nil
}

// DatePropertyValue is a date, a date range or empty.
type DatePropertyValue struct {
	BasePropertyValue
	Date *DateRange
}

// NewDatePropertyValue constructs a date value.
func NewDatePropertyValue(_ context.Context, a PropertyValueArgs) (*DatePropertyValue, error) {
	p := &DatePropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if err := a.Raw.DecodeData(&p.Date); err != nil {
		return nil, err
	}
	return p, nil
}

// ToValue returns nil, the start date, or [start, end].
func (p *DatePropertyValue) ToValue(context.Context, string, []string) (any, error) {
	if p.Date == nil {
		return nil, nil
	}
	return p.Date.Value(), nil
}

// PeoplePropertyValue is a list of users.
type PeoplePropertyValue struct {
	BasePropertyValue
	Users []*User
}

// NewPeoplePropertyValue constructs a people value.
func NewPeoplePropertyValue(_ context.Context, a PropertyValueArgs) (*PeoplePropertyValue, error) {
	var raw []notion.User
	if err := a.Raw.DecodeData(&raw); err != nil {
		return nil, err
	}
	p := &PeoplePropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	for _, u := range raw {
		p.Users = append(p.Users, wrapUser(u))
	}
	return p, nil
}

// ToValue returns the user names.
func (p *PeoplePropertyValue) ToValue(context.Context, string, []string) (any, error) {
	names := make([]string, len(p.Users))
	for i, u := range p.Users {
		names[i] = u.ToValue()
	}
	return names, nil
}

// UserPropertyValue is created_by or last_edited_by.
type UserPropertyValue struct {
	BasePropertyValue
	User *User
}

// NewUserPropertyValue constructs a created_by or last_edited_by value.
func NewUserPropertyValue(_ context.Context, a PropertyValueArgs) (*UserPropertyValue, error) {
	var raw notion.User
	if err := a.Raw.DecodeData(&raw); err != nil {
		return nil, err
	}
	return &UserPropertyValue{BasePropertyValue: NewBasePropertyValue(a), User: wrapUser(raw)}, nil
}

// ToValue returns the user name.
func (p *UserPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	return p.User.ToValue(), nil
}

// FilesPropertyValue is a list of attached files.
type FilesPropertyValue struct {
	BasePropertyValue
	Files []*File
}

// NewFilesPropertyValue constructs a files value.
func NewFilesPropertyValue(_ context.Context, a PropertyValueArgs) (*FilesPropertyValue, error) {
	var raw []notion.File
	if err := a.Raw.DecodeData(&raw); err != nil {
		return nil, err
	}
	p := &FilesPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	for _, f := range raw {
		file, err := WrapFile(f)
		if err != nil {
			return nil, err
		}
		p.Files = append(p.Files, file)
	}
	return p, nil
}

// ToValue returns the file URLs.
func (p *FilesPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	urls := make([]string, len(p.Files))
	for i, f := range p.Files {
		urls[i] = f.ToValue()
	}
	return urls, nil
}

// CheckboxPropertyValue is a boolean.
type CheckboxPropertyValue struct {
	BasePropertyValue
	Checked bool
}

// NewCheckboxPropertyValue constructs a checkbox value.
func NewCheckboxPropertyValue(_ context.Context, a PropertyValueArgs) (*CheckboxPropertyValue, error) {
	p := &CheckboxPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if err := a.Raw.DecodeData(&p.Checked); err != nil {
		return nil, err
	}
	return p, nil
}

// ToValue returns the checkbox state.
func (p *CheckboxPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	return p.Checked, nil
}

// StringPropertyValue is a url, email or phone_number property, or a
// created_time or last_edited_time timestamp.
type StringPropertyValue struct {
	BasePropertyValue
	Value *string
}

// NewStringPropertyValue constructs a string value.
func NewStringPropertyValue(_ context.Context, a PropertyValueArgs) (*StringPropertyValue, error) {
	p := &StringPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if err := a.Raw.DecodeData(&p.Value); err != nil {
		return nil, err
	}
	return p, nil
}

// ToValue returns the string or nil.
func (p *StringPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	if p.Value == nil {
		return nil, nil
	}
	return *p.Value, nil
}

// FormulaPropertyValue is the computed result of a formula.
type FormulaPropertyValue struct {
	BasePropertyValue
	ResultType string
	Value      any
}

// NewFormulaPropertyValue constructs a formula value.
func NewFormulaPropertyValue(_ context.Context, a PropertyValueArgs) (*FormulaPropertyValue, error) {
	var data map[string]json.RawMessage
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	p := &FormulaPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if t, ok := data["type"]; ok {
		if err := json.Unmarshal(t, &p.ResultType); err != nil {
			return nil, fmt.Errorf("formula %s: %w", a.Name, err)
		}
	}
	v, err := decodeComputed(p.ResultType, data[p.ResultType])
	if err != nil {
		return nil, fmt.Errorf("formula %s: %w", a.Name, err)
	}
	p.Value = v
	return p, nil
}

// decodeComputed decodes a formula or rollup result of type typ.
func decodeComputed(typ string, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch typ {
	case "string":
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case "number":
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return numberValue(&n), nil
	case "boolean":
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	case "date":
		var d DateRange
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d.Value(), nil
	}
	return nil, fmt.Errorf("unknown result type %q", typ)
}

// ToValue returns the computed result.
func (p *FormulaPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	return p.Value, nil
}

// RelationPropertyValue lists the ids of related pages. The page object
// carries at most 25 relations inline; longer lists are fetched through the
// property endpoint when the value is constructed.
type RelationPropertyValue struct {
	BasePropertyValue
	IDs []string
}

// NewRelationPropertyValue constructs a relation value.
func NewRelationPropertyValue(ctx context.Context, a PropertyValueArgs) (*RelationPropertyValue, error) {
	p := &RelationPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	if a.Raw.HasMore && a.Page != nil {
		items, err := a.Conv.api.GetPagePropertyItems(ctx, a.Page.ID, a.Raw.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching relation %s: %w", a.Name, err)
		}
		for _, item := range items {
			var ref struct {
				ID string `json:"id"`
			}
			if err := item.DecodeData(&ref); err != nil {
				return nil, err
			}
			p.IDs = append(p.IDs, ref.ID)
		}
		return p, nil
	}
	if a.Raw.HasMore {
		a.Conv.log.Warn().Str("property", a.Name).
			Msg("relation has more entries than the API sent inline but no page to fetch them from, keeping the partial list")
	}
	var refs []struct {
		ID string `json:"id"`
	}
	if err := a.Raw.DecodeData(&refs); err != nil {
		return nil, err
	}
	for _, r := range refs {
		p.IDs = append(p.IDs, r.ID)
	}
	return p, nil
}

// ToValue returns the related page ids.
func (p *RelationPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	return append([]string{}, p.IDs...), nil
}

// RollupPropertyValue aggregates a property of related pages.
type RollupPropertyValue struct {
	BasePropertyValue
	ResultType string
	Function   string
	Value      any
	Items      []PropertyValue
}

// NewRollupPropertyValue constructs a rollup value. Array results wrap each
// element as its own property value.
func NewRollupPropertyValue(ctx context.Context, a PropertyValueArgs) (*RollupPropertyValue, error) {
	var data map[string]json.RawMessage
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	p := &RollupPropertyValue{BasePropertyValue: NewBasePropertyValue(a)}
	for key, dst := range map[string]*string{"type": &p.ResultType, "function": &p.Function} {
		if raw, ok := data[key]; ok {
			if err := json.Unmarshal(raw, dst); err != nil {
				return nil, fmt.Errorf("rollup %s: %w", a.Name, err)
			}
		}
	}
	switch p.ResultType {
	case "array":
		var elems []notion.PropertyValue
		if err := json.Unmarshal(data["array"], &elems); err != nil {
			return nil, fmt.Errorf("rollup %s: %w", a.Name, err)
		}
		for i, e := range elems {
			v, err := a.Conv.WrapPropertyValue(ctx, a.Name+"["+strconv.Itoa(i)+"]", e, nil)
			if err != nil {
				return nil, err
			}
			p.Items = append(p.Items, v)
		}
	case "incomplete", "unsupported":
		a.Conv.log.Warn().Str("property", a.Name).Str("type", p.ResultType).Msg("rollup result cannot be read through the API")
	default:
		v, err := decodeComputed(p.ResultType, data[p.ResultType])
		if err != nil {
			return nil, fmt.Errorf("rollup %s: %w", a.Name, err)
		}
		p.Value = v
	}
	return p, nil
}

// ToValue returns the aggregate, or the values of each element for arrays.
func (p *RollupPropertyValue) ToValue(ctx context.Context, format string, opts []string) (any, error) {
	if p.ResultType != "array" {
		return p.Value, nil
	}
	values := make([]any, 0, len(p.Items))
	for _, item := range p.Items {
		v, err := item.ToValue(ctx, format, opts)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// UniqueIDPropertyValue is an auto-incremented id with an optional prefix.
type UniqueIDPropertyValue struct {
	BasePropertyValue
	Prefix *string
	Number *int64
}

// NewUniqueIDPropertyValue constructs a unique_id value.
func NewUniqueIDPropertyValue(_ context.Context, a PropertyValueArgs) (*UniqueIDPropertyValue, error) {
	var data struct {
		Prefix *string `json:"prefix"`
		Number *int64  `json:"number"`
	}
	if err := a.Raw.DecodeData(&data); err != nil {
		return nil, err
	}
	return &UniqueIDPropertyValue{BasePropertyValue: NewBasePropertyValue(a), Prefix: data.Prefix, Number: data.Number}, nil
}

// ToValue returns "PREFIX-N", N, or nil.
func (p *UniqueIDPropertyValue) ToValue(context.Context, string, []string) (any, error) {
	if p.Number == nil {
		return nil, nil
	}
	if p.Prefix == nil || *p.Prefix == "" {
		return *p.Number, nil
	}
	return fmt.Sprintf("%s-%d", *p.Prefix, *p.Number), nil
}
