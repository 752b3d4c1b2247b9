// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// named is a trivial product: the class name that built it.
type named string

func class(name, extends string, accept func(string) bool) Class[string, named] {
	return Class[string, named]{
		Name:    name,
		Extends: extends,
		New: func(_ context.Context, in string) (named, error) {
			if accept != nil && !accept(in) {
				return "", ErrUseNext
			}
			return named(name), nil
		},
	}
}

func always(string) bool { return true }

func TestResolve_DeferChain(t *testing.T) {
	r := New[string, named]("blocks")
	r.Default("paragraph", class("Base", "", nil))
	require.NoError(t, r.Register("paragraph", class("OverrideA", "Base", func(in string) bool { return in != "base" })))
	require.NoError(t, r.Register("paragraph", class("OverrideB", "OverrideA", func(in string) bool { return in == "b" })))

	tests := []struct {
		in   string
		want named
	}{
		{"b", "OverrideB"},
		{"a", "OverrideA"},
		{"base", "Base"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), "paragraph", tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnknownTag(t *testing.T) {
	r := New[string, named]("blocks")
	r.Default("paragraph", class("Base", "", nil))

	_, err := r.Resolve(context.Background(), "abcdef", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotImplemented)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "abcdef", se.Tag)
	assert.Contains(t, err.Error(), "abcdef")
}

func TestResolve_BaseDeferringIsLogicError(t *testing.T) {
	r := New[string, named]("blocks")
	r.Default("paragraph", class("Base", "", func(string) bool { return false }))

	_, err := r.Resolve(context.Background(), "paragraph", "x")
	assert.ErrorIs(t, err, ErrNoClass)
	assert.NotErrorIs(t, err, ErrUseNext)
}

func TestResolve_ConstructorErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := New[string, named]("blocks")
	r.Default("paragraph", class("Base", "", nil))
	require.NoError(t, r.Register("paragraph", Class[string, named]{
		Name: "Broken", Extends: "Base",
		New: func(context.Context, string) (named, error) { return "", boom },
	}))

	_, err := r.Resolve(context.Background(), "paragraph", "x")
	assert.ErrorIs(t, err, boom)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		class Class[string, named]
		want  string
	}{
		{"unknown tag", "puppy", class("Puppy", "Base", always), "no base class"},
		{"no extends", "paragraph", class("Orphan", "", always), "must extend Base"},
		{"foreign base", "paragraph", class("Stranger", "HeadingBase", always), "not derived from Base"},
		{"no constructor", "paragraph", Class[string, named]{Name: "Empty", Extends: "Base"}, "missing constructor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New[string, named]("blocks")
			r.Default("paragraph", class("Base", "", nil))

			err := r.Register(tt.tag, tt.class)
			var pe *PluginError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, []string{"Base"}, r.Chain("paragraph"))
		})
	}
}

func TestReset(t *testing.T) {
	r := New[string, named]("blocks")
	r.Default("code", class("FencedCode", "", nil))
	require.NoError(t, r.Register("code", class("Mermaid", "FencedCode", always)))
	assert.Equal(t, []string{"FencedCode", "Mermaid"}, r.Chain("code"))

	r.Reset()
	require.NoError(t, r.Register("code", class("RawCode", "FencedCode", always)))
	assert.Equal(t, []string{"FencedCode", "RawCode"}, r.Chain("code"))
}

func TestTags(t *testing.T) {
	r := New[string, named]("mentions")
	r.Default("user", class("User", "", nil))
	r.Default("date", class("Date", "", nil))
	assert.Equal(t, []string{"date", "user"}, r.Tags())
	assert.Equal(t, "mentions", r.Category())
}
