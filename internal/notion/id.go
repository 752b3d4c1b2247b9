// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const shareLinkPrefix = "https://www.notion.so/"

// NormalizeID parses id (hyphenated or not) and returns its canonical
// 32-digit hex form without hyphens.
func NormalizeID(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("invalid object id %q: %w", id, err)
	}
	return strings.ReplaceAll(u.String(), "-", ""), nil
}

// Hyphenated returns id in the 8-4-4-4-12 form used by the API, or id
// unchanged if it cannot be parsed.
func Hyphenated(id string) string {
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return u.String()
}

// IDFromShareLink extracts the object id from a share link. Values that are
// not share links are returned with hyphens removed.
func IDFromShareLink(link string) string {
	stripped := strings.ReplaceAll(link, "-", "")
	if !strings.HasPrefix(stripped, shareLinkPrefix) {
		return stripped
	}
	last := stripped[strings.LastIndex(stripped, "/")+1:]
	if i := strings.IndexByte(last, '?'); i >= 0 {
		last = last[:i]
	}
	// Page links end in "<title><32-hex id>".
	if len(last) > 32 {
		last = last[len(last)-32:]
	}
	return last
}

// NewID returns a random id in canonical form.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
