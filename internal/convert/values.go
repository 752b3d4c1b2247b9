// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/pdiddy/n2y/internal/notion"
)

// User is a person or bot.
type User struct {
	ID        string
	Type      string
	Name      string
	Email     string
	AvatarURL string
}

func wrapUser(raw notion.User) *User {
	u := &User{ID: raw.ID, Type: raw.Type, Name: raw.Name, AvatarURL: raw.AvatarURL}
	if raw.Person != nil {
		u.Email = raw.Person.Email
	}
	return u
}

// ToValue returns the user's display name.
func (u *User) ToValue() string { return u.Name }

// File is a hosted or external file reference.
type File struct {
	Type       string
	Name       string
	URL        string
	ExpiryTime string
}

// WrapFile converts a raw file object. Hosted files carry an expiry time.
func WrapFile(raw notion.File) (*File, error) {
	f := &File{Type: raw.Type, Name: raw.Name}
	switch raw.Type {
	case "file":
		if raw.File == nil {
			return nil, fmt.Errorf("hosted file %q has no url", raw.Name)
		}
		f.URL, f.ExpiryTime = raw.File.URL, raw.File.ExpiryTime
	case "external":
		if raw.External == nil {
			return nil, fmt.Errorf("external file %q has no url", raw.Name)
		}
		f.URL = raw.External.URL
	default:
		return nil, fmt.Errorf("unknown file type %q", raw.Type)
	}
	return f, nil
}

// ToValue returns the file URL.
func (f *File) ToValue() string { return f.URL }

// DateRange is a date or a start/end pair as sent by the API.
type DateRange struct {
	Start    string  `json:"start"`
	End      *string `json:"end"`
	TimeZone *string `json:"time_zone"`
}

// String returns "start" or "start to end".
func (d DateRange) String() string {
	if d.End == nil || *d.End == "" {
		return d.Start
	}
	return d.Start + " to " + *d.End
}

// Value returns the start for single dates and [start, end] for ranges.
func (d DateRange) Value() any {
	if d.End == nil || *d.End == "" {
		return d.Start
	}
	return []string{d.Start, *d.End}
}
