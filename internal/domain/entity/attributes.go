package entity

import (
	"fmt"
	"strings"
)

// Attributes is an incoming attribute map for create/update.
type Attributes map[string]any

// Has reports whether key is present, even with a nil value.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the value for key as a string. ok is false when the key
// is missing or nil.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprintf("%v", x), true
	}
}

// Filled reports whether key holds a non-blank value.
func (a Attributes) Filled(key string) bool {
	v, ok := a.String(key)
	return ok && strings.TrimSpace(v) != ""
}
