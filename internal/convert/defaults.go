// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
)

// NewBlockClass adapts a typed constructor to a registry class.
func NewBlockClass[T Block](name, extends string, ctor func(context.Context, BlockArgs) (T, error)) BlockClass {
	return BlockClass{Name: name, Extends: extends, New: func(ctx context.Context, a BlockArgs) (Block, error) {
		b, err := ctor(ctx, a)
		if err != nil {
			return nil, err
		}
		return b, nil
	}}
}

// NewRichTextClass adapts a typed constructor to a registry class.
func NewRichTextClass[T RichText](name, extends string, ctor func(context.Context, RichTextArgs) (T, error)) RichTextClass {
	return RichTextClass{Name: name, Extends: extends, New: func(ctx context.Context, a RichTextArgs) (RichText, error) {
		r, err := ctor(ctx, a)
		if err != nil {
			return nil, err
		}
		return r, nil
	}}
}

// NewMentionClass adapts a typed constructor to a registry class.
func NewMentionClass[T Mention](name, extends string, ctor func(context.Context, MentionArgs) (T, error)) MentionClass {
	return MentionClass{Name: name, Extends: extends, New: func(ctx context.Context, a MentionArgs) (Mention, error) {
		m, err := ctor(ctx, a)
		if err != nil {
			return nil, err
		}
		return m, nil
	}}
}

// NewPropertyValueClass adapts a typed constructor to a registry class.
func NewPropertyValueClass[T PropertyValue](name, extends string, ctor func(context.Context, PropertyValueArgs) (T, error)) PropertyValueClass {
	return PropertyValueClass{Name: name, Extends: extends, New: func(ctx context.Context, a PropertyValueArgs) (PropertyValue, error) {
		p, err := ctor(ctx, a)
		if err != nil {
			return nil, err
		}
		return p, nil
	}}
}

func headingConstructor(level int) func(context.Context, BlockArgs) (*HeadingBlock, error) {
	return func(ctx context.Context, a BlockArgs) (*HeadingBlock, error) {
		return NewHeadingBlock(ctx, a, level)
	}
}

// Built-in class names, for plugins to extend.
const (
	ParagraphClass       = "ParagraphBlock"
	HeadingOneClass      = "HeadingOneBlock"
	HeadingTwoClass      = "HeadingTwoBlock"
	HeadingThreeClass    = "HeadingThreeBlock"
	BulletedItemClass    = "BulletedListItemBlock"
	NumberedItemClass    = "NumberedListItemBlock"
	ToDoClass            = "ToDoBlock"
	ToggleClass          = "ToggleBlock"
	QuoteClass           = "QuoteBlock"
	CalloutClass         = "CalloutBlock"
	CodeClass            = "CodeBlock"
	EquationClass        = "EquationBlock"
	LinkToPageClass      = "LinkToPageBlock"
	FilesClass           = "FilesPropertyValue"
	TextRichTextClass    = "TextRichText"
	MentionRichTextClass = "MentionRichText"
	PageMentionClass     = "PageMention"
	DatabaseMentionClass = "DatabaseMention"
)

func (c *Converter) registerDefaults() {
	blocks := map[string]BlockClass{
		"paragraph":          NewBlockClass(ParagraphClass, "", NewParagraphBlock),
		"heading_1":          NewBlockClass(HeadingOneClass, "", headingConstructor(1)),
		"heading_2":          NewBlockClass(HeadingTwoClass, "", headingConstructor(2)),
		"heading_3":          NewBlockClass(HeadingThreeClass, "", headingConstructor(3)),
		"bulleted_list_item": NewBlockClass(BulletedItemClass, "", NewListItemBlock),
		"numbered_list_item": NewBlockClass(NumberedItemClass, "", NewListItemBlock),
		"to_do":              NewBlockClass(ToDoClass, "", NewToDoBlock),
		"toggle":             NewBlockClass(ToggleClass, "", NewToggleBlock),
		"quote":              NewBlockClass(QuoteClass, "", NewQuoteBlock),
		"callout":            NewBlockClass(CalloutClass, "", NewCalloutBlock),
		"code":               NewBlockClass(CodeClass, "", NewCodeBlock),
		"equation":           NewBlockClass(EquationClass, "", NewEquationBlock),
		"divider":            NewBlockClass("DividerBlock", "", NewDividerBlock),
		"bookmark":           NewBlockClass("BookmarkBlock", "", NewBookmarkBlock),
		"image":              NewBlockClass("ImageBlock", "", NewImageBlock),
		"file":               NewBlockClass("FileBlock", "", NewFileBlock),
		"pdf":                NewBlockClass("PdfBlock", "", NewContentBlock),
		"audio":              NewBlockClass("AudioBlock", "", NewContentBlock),
		"video":              NewBlockClass("VideoBlock", "", NewContentBlock),
		"table":              NewBlockClass("TableBlock", "", NewTableBlock),
		"table_row":          NewBlockClass("TableRowBlock", "", NewTableRowBlock),
		"column_list":        NewBlockClass("ColumnListBlock", "", NewPassThroughBlock),
		"column":             NewBlockClass("ColumnBlock", "", NewPassThroughBlock),
		"synced_block":       NewBlockClass("SyncedBlock", "", NewSyncedBlock),
		"link_to_page":       NewBlockClass(LinkToPageClass, "", NewLinkToPageBlock),
		"child_page":         NewBlockClass("ChildPageBlock", "", NewChildPageBlock),
		"table_of_contents":  NewBlockClass("TableOfContentsBlock", "", NewTableOfContentsBlock),
		"child_database":     NewBlockClass("ChildDatabaseBlock", "", NewNoopBlock),
		"breadcrumb":         NewBlockClass("BreadcrumbBlock", "", NewNoopBlock),
		"template":           NewBlockClass("TemplateBlock", "", NewNoopBlock),
		"unsupported":        NewBlockClass("UnsupportedBlock", "", NewNoopBlock),
		"embed":              NewBlockClass("EmbedBlock", "", NewWarningBlock),
		"link_preview":       NewBlockClass("LinkPreviewBlock", "", NewWarningBlock),
	}
	for tag, cls := range blocks {
		c.blocks.Default(tag, cls)
	}

	c.richTexts.Default("text", NewRichTextClass(TextRichTextClass, "", NewTextRichText))
	c.richTexts.Default("equation", NewRichTextClass("EquationRichText", "", NewEquationRichText))
	c.richTexts.Default("mention", NewRichTextClass(MentionRichTextClass, "", NewMentionRichText))

	c.mentions.Default("user", NewMentionClass("UserMention", "", NewUserMention))
	c.mentions.Default("page", NewMentionClass(PageMentionClass, "", NewPageMention))
	c.mentions.Default("database", NewMentionClass(DatabaseMentionClass, "", NewDatabaseMention))
	c.mentions.Default("date", NewMentionClass("DateMention", "", NewDateMention))
	c.mentions.Default("link_preview", NewMentionClass("LinkPreviewMention", "", NewLinkPreviewMention))
	c.mentions.Default("link_mention", NewMentionClass("LinkMention", "", NewLinkMention))

	values := map[string]PropertyValueClass{
		"title":            NewPropertyValueClass("TitlePropertyValue", "", NewRichTextPropertyValue),
		"rich_text":        NewPropertyValueClass("RichTextPropertyValue", "", NewRichTextPropertyValue),
		"number":           NewPropertyValueClass("NumberPropertyValue", "", NewNumberPropertyValue),
		"select":           NewPropertyValueClass("SelectPropertyValue", "", NewSelectPropertyValue),
		"status":           NewPropertyValueClass("StatusPropertyValue", "", NewSelectPropertyValue),
		"multi_select":     NewPropertyValueClass("MultiSelectPropertyValue", "", NewMultiSelectPropertyValue),
		"date":             NewPropertyValueClass("DatePropertyValue", "", NewDatePropertyValue),
		"people":           NewPropertyValueClass("PeoplePropertyValue", "", NewPeoplePropertyValue),
		"files":            NewPropertyValueClass(FilesClass, "", NewFilesPropertyValue),
		"checkbox":         NewPropertyValueClass("CheckboxPropertyValue", "", NewCheckboxPropertyValue),
		"url":              NewPropertyValueClass("URLPropertyValue", "", NewStringPropertyValue),
		"email":            NewPropertyValueClass("EmailPropertyValue", "", NewStringPropertyValue),
		"phone_number":     NewPropertyValueClass("PhoneNumberPropertyValue", "", NewStringPropertyValue),
		"created_time":     NewPropertyValueClass("CreatedTimePropertyValue", "", NewStringPropertyValue),
		"last_edited_time": NewPropertyValueClass("LastEditedTimePropertyValue", "", NewStringPropertyValue),
		"created_by":       NewPropertyValueClass("CreatedByPropertyValue", "", NewUserPropertyValue),
		"last_edited_by":   NewPropertyValueClass("LastEditedByPropertyValue", "", NewUserPropertyValue),
		"formula":          NewPropertyValueClass("FormulaPropertyValue", "", NewFormulaPropertyValue),
		"relation":         NewPropertyValueClass("RelationPropertyValue", "", NewRelationPropertyValue),
		"rollup":           NewPropertyValueClass("RollupPropertyValue", "", NewRollupPropertyValue),
		"unique_id":        NewPropertyValueClass("UniqueIDPropertyValue", "", NewUniqueIDPropertyValue),
	}
	for tag, cls := range values {
		c.propertyValues.Default(tag, cls)
	}
}
