package validation

import (
	"errors"
	"sort"
	"strings"
)

// Error carries field-addressable validation failures.
type Error struct {
	Fields map[string][]string `json:"fields"`
}

// NewError builds an Error with a single message.
func NewError(field, msg string) *Error {
	e := &Error{Fields: map[string][]string{}}
	e.Add(field, msg)
	return e
}

// Add appends msg to field.
func (e *Error) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no field failed.
func (e *Error) Empty() bool { return len(e.Fields) == 0 }

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields extracts the field map from err when it wraps an *Error.
func Fields(err error) (map[string][]string, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
