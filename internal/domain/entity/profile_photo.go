package entity

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// DefaultAvatarBase renders initials when no photo is stored.
const DefaultAvatarBase = "https://ui-avatars.com/api/"

// ProfilePhoto is the stored photo reference of an account.
// URL is resolved by the photo storage and is not persisted.
type ProfilePhoto struct {
	Path string
	URL  string
}

// Empty reports whether no photo is stored.
func (p ProfilePhoto) Empty() bool { return p.Path == "" }

// PathOrNil is used for serialization, where a missing photo is null.
func (p ProfilePhoto) PathOrNil() *string {
	if p.Path == "" {
		return nil
	}
	s := p.Path
	return &s
}

// URLFor returns the resolved URL, or the default avatar for name.
func (p ProfilePhoto) URLFor(name string) string {
	if p.Path != "" && p.URL != "" {
		return p.URL
	}
	return DefaultAvatarURL(name)
}

// DefaultAvatarURL builds an initials avatar, e.g. "Jane Doe" -> name=J+D.
func DefaultAvatarURL(name string) string {
	segments := strings.Fields(name)
	initials := make([]string, 0, len(segments))
	for _, s := range segments {
		r, _ := utf8.DecodeRuneInString(s)
		initials = append(initials, string(r))
	}
	return DefaultAvatarBase + "?name=" + url.QueryEscape(strings.Join(initials, " ")) + "&color=7F9CF5&background=EBF4FF"
}
