package validation

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RuleSet maps an attribute name to the rules applied to it, in order.
type RuleSet map[string][]Rule

// Has reports whether field has any rules.
func (rs RuleSet) Has(field string) bool {
	_, ok := rs[field]
	return ok
}

// UniqueChecker answers uniqueness lookups for Unique rules.
type UniqueChecker interface {
	Exists(ctx context.Context, column, value, ignoreID string) (bool, error)
}

// Validator applies a RuleSet to an attribute map.
type Validator struct {
	engine *validator.Validate
	unique UniqueChecker
}

// New builds a Validator. unique may be nil when no Unique rules are used.
func New(unique UniqueChecker) *Validator {
	v := validator.New()
	register(v)
	return &Validator{engine: v, unique: unique}
}

// Validate checks attrs against rules. It returns *Error with every failing
// field, nil when all pass, or the first infrastructure error a rule hit.
func (v *Validator) Validate(ctx context.Context, attrs map[string]any, rules RuleSet) error {
	fields := make([]string, 0, len(rules))
	for f := range rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	verr := &Error{Fields: map[string][]string{}}
	for _, field := range fields {
		value := normalize(attrs[field])
		for _, rule := range rules[field] {
			msg, err := rule.Check(ctx, v, field, value, attrs)
			if err != nil {
				return err
			}
			if msg != "" {
				verr.Add(field, msg)
			}
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// normalize treats blank strings as missing, the way form input is usually read.
func normalize(v any) any {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return v
}
