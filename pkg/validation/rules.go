package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-ddd-account-service/pkg/upload"
)

// Rule checks a single attribute. It returns a message when the value fails;
// a non-nil error means the check itself could not run.
type Rule interface {
	Check(ctx context.Context, v *Validator, field string, value any, attrs map[string]any) (string, error)
}

// Tag is a go-playground/validator tag expression, e.g. "required,string,max=20".
// Presence rules (required, omitempty, accepted) live here.
type Tag string

func (t Tag) Check(ctx context.Context, v *Validator, _ string, value any, _ map[string]any) (string, error) {
	err := v.engine.VarCtx(ctx, value, string(t))
	if err == nil {
		return "", nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return formatFieldError(verrs[0]), nil
	}
	return "", err
}

// Unique requires that no other record holds the value in Column.
// IgnoreID excludes the record being updated.
type Unique struct {
	Column   string
	IgnoreID string
}

func (u Unique) Check(ctx context.Context, v *Validator, _ string, value any, _ map[string]any) (string, error) {
	if blank(value) {
		return "", nil
	}
	if v.unique == nil {
		return "", errors.New("validation: no unique checker configured")
	}
	taken, err := v.unique.Exists(ctx, u.Column, fmt.Sprintf("%v", value), u.IgnoreID)
	if err != nil {
		return "", err
	}
	if taken {
		return "has already been taken", nil
	}
	return "", nil
}

// Confirmed requires <field>_confirmation to carry the same value.
type Confirmed struct{}

func (Confirmed) Check(_ context.Context, _ *Validator, field string, value any, attrs map[string]any) (string, error) {
	if blank(value) {
		return "", nil
	}
	other, ok := attrs[field+"_confirmation"]
	if !ok || other == nil || fmt.Sprintf("%v", other) != fmt.Sprintf("%v", value) {
		return "confirmation does not match", nil
	}
	return "", nil
}

// PasswordPolicy is the configurable strength policy for passwords.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireNumeric   bool
	RequireSpecial   bool
}

// DefaultPasswordPolicy only enforces a minimum of 8 characters.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

// Password applies Policy to a string value.
type Password struct {
	Policy PasswordPolicy
}

func (p Password) Check(_ context.Context, _ *Validator, _ string, value any, _ map[string]any) (string, error) {
	if blank(value) {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "must be a string", nil
	}
	if p.Policy.MinLength > 0 && len([]rune(s)) < p.Policy.MinLength {
		return fmt.Sprintf("must be at least %d characters long", p.Policy.MinLength), nil
	}
	var upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	if p.Policy.RequireUppercase && !upper {
		return "must contain at least one uppercase character", nil
	}
	if p.Policy.RequireNumeric && !digit {
		return "must contain at least one number", nil
	}
	if p.Policy.RequireSpecial && !special {
		return "must contain at least one special character", nil
	}
	return "", nil
}

// Image requires an uploaded image with one of Extensions and at most MaxKB kilobytes.
// The type is sniffed from the content, not taken from the client file name.
type Image struct {
	Extensions []string
	MaxKB      int64
}

func (im Image) Check(_ context.Context, _ *Validator, _ string, value any, _ map[string]any) (string, error) {
	if blank(value) {
		return "", nil
	}
	f, ok := value.(*upload.File)
	if !ok {
		return "must be an image", nil
	}
	mt, err := f.DetectMIME()
	if err != nil {
		return "", err
	}
	ext := strings.TrimPrefix(mt.Extension(), ".")
	allowed := false
	for _, e := range im.Extensions {
		if strings.EqualFold(e, ext) {
			allowed = true
			break
		}
	}
	if !allowed || !strings.HasPrefix(mt.String(), "image/") {
		return "must be a file of type: " + strings.Join(im.Extensions, ", "), nil
	}
	if im.MaxKB > 0 && f.Size > im.MaxKB*1024 {
		return fmt.Sprintf("must not be greater than %d kilobytes", im.MaxKB), nil
	}
	return "", nil
}

// blank is true for nil, empty strings and nil uploads.
func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case *upload.File:
		return x == nil
	}
	return false
}
