// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry resolves which implementation handles a node. Every type
// tag owns an ordered chain of candidate classes: the shipped base first,
// overrides after it. Resolution tries the newest class first and falls back
// to older ones when a candidate declines with ErrUseNext.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUseNext is returned by a class constructor to say "this input is not
// mine, try the next older class". It never escapes Resolve.
var ErrUseNext = errors.New("use next class")

// ErrNoClass means every class in a chain declined, including the base.
// Base classes must always accept, so this indicates a programming error.
var ErrNoClass = errors.New("no class accepted the input")

// ErrNotImplemented is wrapped by SchemaError.
var ErrNotImplemented = errors.New("not implemented")

// SchemaError is returned when a type tag has no registered base class. It
// signals an upstream schema change or a missing feature and is never retried.
type SchemaError struct {
	Category string
	Tag      string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unknown %s type %q: %v", e.Category, e.Tag, ErrNotImplemented)
}

func (e *SchemaError) Unwrap() error { return ErrNotImplemented }

// PluginError reports a misconfigured registration.
type PluginError struct {
	Category string
	Tag      string
	Class    string
	Reason   string
}

func (e *PluginError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("plugin error in %s %q: %s", e.Category, e.Tag, e.Reason)
	}
	return fmt.Sprintf("plugin error registering %s for %s %q: %s", e.Class, e.Category, e.Tag, e.Reason)
}

// Class is one candidate implementation for a type tag. Extends names the
// class it builds on; it is empty only for a base class. New constructs an
// instance or returns ErrUseNext to decline.
type Class[A, T any] struct {
	Name    string
	Extends string
	New     func(ctx context.Context, args A) (T, error)
}

// Registry holds the class chains of one category (blocks, rich texts, ...).
// It is not safe for concurrent registration; all registration happens before
// conversion begins.
type Registry[A, T any] struct {
	category string
	bases    map[string]Class[A, T]
	chains   map[string][]Class[A, T]
}

// New creates an empty registry for category.
func New[A, T any](category string) *Registry[A, T] {
	return &Registry[A, T]{
		category: category,
		bases:    make(map[string]Class[A, T]),
		chains:   make(map[string][]Class[A, T]),
	}
}

// Category returns the category name the registry was created with.
func (r *Registry[A, T]) Category() string { return r.category }

// Default installs the base class for tag, replacing any existing chain.
func (r *Registry[A, T]) Default(tag string, c Class[A, T]) {
	c.Extends = ""
	r.bases[tag] = c
	r.chains[tag] = []Class[A, T]{c}
}

// Register appends an override to the chain for tag. The tag must already
// have a base class, and c.Extends must name a class already in the chain so
// that every override ultimately derives from the base behavior.
func (r *Registry[A, T]) Register(tag string, c Class[A, T]) error {
	chain, ok := r.chains[tag]
	if !ok {
		return &PluginError{Category: r.category, Tag: tag, Class: c.Name, Reason: "no base class is registered for this type"}
	}
	if c.New == nil {
		return &PluginError{Category: r.category, Tag: tag, Class: c.Name, Reason: "missing constructor"}
	}
	if c.Extends == "" {
		return &PluginError{Category: r.category, Tag: tag, Class: c.Name, Reason: fmt.Sprintf("must extend %s", chain[0].Name)}
	}
	for _, existing := range chain {
		if existing.Name == c.Extends {
			r.chains[tag] = append(chain, c)
			return nil
		}
	}
	return &PluginError{
		Category: r.category, Tag: tag, Class: c.Name,
		Reason: fmt.Sprintf("extends %s, which is not derived from %s", c.Extends, chain[0].Name),
	}
}

// Reset drops every override, leaving only base classes.
func (r *Registry[A, T]) Reset() {
	for tag, base := range r.bases {
		r.chains[tag] = []Class[A, T]{base}
	}
}

// Chain returns the class names for tag, base first.
func (r *Registry[A, T]) Chain(tag string) []string {
	chain := r.chains[tag]
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return names
}

// Tags returns every tag with a base class, sorted.
func (r *Registry[A, T]) Tags() []string {
	tags := make([]string, 0, len(r.chains))
	for tag := range r.chains {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Resolve constructs the most recently registered class for tag that accepts
// args. Classes returning ErrUseNext are skipped; any other error aborts.
func (r *Registry[A, T]) Resolve(ctx context.Context, tag string, args A) (T, error) {
	var zero T
	chain, ok := r.chains[tag]
	if !ok {
		return zero, &SchemaError{Category: r.category, Tag: tag}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		v, err := chain[i].New(ctx, args)
		if errors.Is(err, ErrUseNext) {
			continue
		}
		if err != nil {
			return zero, err
		}
		return v, nil
	}
	return zero, fmt.Errorf("%s %q: %w", r.category, tag, ErrNoClass)
}
