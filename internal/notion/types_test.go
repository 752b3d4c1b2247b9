// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_TaggedPayload(t *testing.T) {
	raw := `{"object":"block","id":"b1","type":"heading_1","has_children":false,
		"heading_1":{"rich_text":[],"color":"default","is_toggleable":false},
		"unused_field":{"x":1}}`

	var b Block
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, "heading_1", b.Type)
	assert.Equal(t, "b1", b.ID)

	var h struct {
		Color string `json:"color"`
	}
	require.NoError(t, b.DecodeData(&h))
	assert.Equal(t, "default", h.Color)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Contains(t, back, "heading_1")
	assert.NotContains(t, back, "unused_field")
}

func TestRichText_Mention(t *testing.T) {
	raw := `{"type":"mention","plain_text":"@Ann","href":null,
		"annotations":{"bold":true,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},
		"mention":{"type":"user","user":{"object":"user","id":"u1","name":"Ann"}}}`

	var rt RichText
	require.NoError(t, json.Unmarshal([]byte(raw), &rt))
	assert.Equal(t, "mention", rt.Type)
	assert.True(t, rt.Annotations.Bold)
	assert.Equal(t, "", rt.HrefString())

	var m Mention
	require.NoError(t, rt.DecodeData(&m))
	assert.Equal(t, "user", m.Type)
	var u User
	require.NoError(t, m.DecodeData(&u))
	assert.Equal(t, "Ann", u.Name)
}

func TestPropertyValue_NullPayload(t *testing.T) {
	var pv PropertyValue
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","type":"select","select":null}`), &pv))
	assert.True(t, pv.IsNull())

	out, err := json.Marshal(pv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","type":"select","select":null}`, string(out))
}

func TestParent_ID(t *testing.T) {
	assert.Equal(t, "p", Parent{Type: "page_id", PageID: "p"}.ID())
	assert.Equal(t, "d", Parent{Type: "database_id", DatabaseID: "d"}.ID())
	assert.Equal(t, "", Parent{Type: "workspace", Workspace: true}.ID())
}

func TestNormalizeID(t *testing.T) {
	got, err := NormalizeID("5a5f6b1c-0e2d-4a4b-9f6e-7c8d9e0f1a2b")
	require.NoError(t, err)
	assert.Equal(t, "5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b", got)

	got, err = NormalizeID("5A5F6B1C0E2D4A4B9F6E7C8D9E0F1A2B")
	require.NoError(t, err)
	assert.Equal(t, "5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b", got)

	_, err = NormalizeID("not-an-id")
	assert.Error(t, err)

	assert.Equal(t, "5a5f6b1c-0e2d-4a4b-9f6e-7c8d9e0f1a2b", Hyphenated("5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b"))
}

func TestIDFromShareLink(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5a5f6b1c-0e2d-4a4b-9f6e-7c8d9e0f1a2b", "5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b"},
		{"https://www.notion.so/5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b?v=1", "5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b"},
		{"https://www.notion.so/team/My-Page-5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b", "5a5f6b1c0e2d4a4b9f6e7c8d9e0f1a2b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IDFromShareLink(tt.in))
		})
	}
}
