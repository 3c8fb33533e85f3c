package validation

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-account-service/pkg/upload"
)

type fakeUnique struct {
	taken  map[string]string // value -> owner id
	err    error
	called int
}

func (f *fakeUnique) Exists(_ context.Context, _ string, value, ignoreID string) (bool, error) {
	f.called++
	if f.err != nil {
		return false, f.err
	}
	owner, ok := f.taken[value]
	return ok && owner != ignoreID, nil
}

func encode(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	return encode(t, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })
}

func TestValidate_TagRules(t *testing.T) {
	v := New(nil)
	rules := RuleSet{
		"first_name": {Tag("required,string,max=20")},
		"email":      {Tag("required,string,email,max=255")},
	}

	t.Run("passes", func(t *testing.T) {
		err := v.Validate(context.Background(), map[string]any{"first_name": "Jane", "email": "jane@example.com"}, rules)
		assert.NoError(t, err)
	})

	t.Run("collects every failing field", func(t *testing.T) {
		err := v.Validate(context.Background(), map[string]any{"first_name": strings.Repeat("x", 21), "email": "nope"}, rules)
		fields, ok := Fields(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must be at most 20 characters long"}, fields["first_name"])
		assert.Equal(t, []string{"must be a valid email"}, fields["email"])
	})

	t.Run("missing and blank are required failures", func(t *testing.T) {
		err := v.Validate(context.Background(), map[string]any{"first_name": "   "}, rules)
		fields, ok := Fields(err)
		require.True(t, ok)
		assert.Equal(t, []string{"is required"}, fields["first_name"])
		assert.Equal(t, []string{"is required"}, fields["email"])
	})

	t.Run("non string", func(t *testing.T) {
		err := v.Validate(context.Background(), map[string]any{"first_name": 42, "email": "a@b.co"}, rules)
		fields, ok := Fields(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must be a string"}, fields["first_name"])
	})
}

func TestValidate_Accepted(t *testing.T) {
	v := New(nil)
	rules := RuleSet{"terms": {Tag("accepted")}}

	for _, ok := range []any{true, "on", "yes", "1", "TRUE", 1, float64(1)} {
		assert.NoError(t, v.Validate(context.Background(), map[string]any{"terms": ok}, rules), "%v", ok)
	}
	for _, bad := range []any{nil, false, "no", 0} {
		err := v.Validate(context.Background(), map[string]any{"terms": bad}, rules)
		fields, isVE := Fields(err)
		require.True(t, isVE, "%v", bad)
		assert.Equal(t, []string{"must be accepted"}, fields["terms"])
	}
	err := v.Validate(context.Background(), map[string]any{}, rules)
	assert.Error(t, err)
}

func TestValidate_Unique(t *testing.T) {
	checker := &fakeUnique{taken: map[string]string{"taken@example.com": "id-1"}}
	v := New(checker)

	err := v.Validate(context.Background(), map[string]any{"email": "taken@example.com"}, RuleSet{"email": {Unique{Column: "email"}}})
	fields, ok := Fields(err)
	require.True(t, ok)
	assert.Equal(t, []string{"has already been taken"}, fields["email"])

	err = v.Validate(context.Background(), map[string]any{"email": "taken@example.com"}, RuleSet{"email": {Unique{Column: "email", IgnoreID: "id-1"}}})
	assert.NoError(t, err)

	calls := checker.called
	err = v.Validate(context.Background(), map[string]any{}, RuleSet{"email": {Unique{Column: "email"}}})
	assert.NoError(t, err)
	assert.Equal(t, calls, checker.called, "blank values are not looked up")
}

func TestValidate_UniqueLookupFailure(t *testing.T) {
	boom := errors.New("db down")
	v := New(&fakeUnique{err: boom})

	err := v.Validate(context.Background(), map[string]any{"email": "a@example.com"}, RuleSet{"email": {Unique{Column: "email"}}})
	assert.ErrorIs(t, err, boom)
	_, ok := Fields(err)
	assert.False(t, ok)
}

func TestValidate_Confirmed(t *testing.T) {
	v := New(nil)
	rules := RuleSet{"password": {Confirmed{}}}

	assert.NoError(t, v.Validate(context.Background(), map[string]any{"password": "secret123", "password_confirmation": "secret123"}, rules))
	assert.NoError(t, v.Validate(context.Background(), map[string]any{}, rules))

	err := v.Validate(context.Background(), map[string]any{"password": "secret123", "password_confirmation": "other"}, rules)
	fields, ok := Fields(err)
	require.True(t, ok)
	assert.Equal(t, []string{"confirmation does not match"}, fields["password"])

	err = v.Validate(context.Background(), map[string]any{"password": "secret123"}, rules)
	assert.Error(t, err)
}

func TestValidate_Password(t *testing.T) {
	v := New(nil)
	strict := RuleSet{"password": {Password{Policy: PasswordPolicy{MinLength: 8, RequireUppercase: true, RequireNumeric: true, RequireSpecial: true}}}}

	cases := map[string]string{
		"short":       "must be at least 8 characters long",
		"lowercase1!": "must contain at least one uppercase character",
		"Uppercase!":  "must contain at least one number",
		"Uppercase1":  "must contain at least one special character",
	}
	for pwd, msg := range cases {
		err := v.Validate(context.Background(), map[string]any{"password": pwd}, strict)
		fields, ok := Fields(err)
		require.True(t, ok, pwd)
		assert.Equal(t, []string{msg}, fields["password"], pwd)
	}

	assert.NoError(t, v.Validate(context.Background(), map[string]any{"password": "Upper1case!"}, strict))
	assert.NoError(t, v.Validate(context.Background(), map[string]any{"password": "longenough"}, RuleSet{"password": {Password{Policy: DefaultPasswordPolicy()}}}))
}

func TestValidate_Image(t *testing.T) {
	v := New(nil)
	rules := RuleSet{"photo": {Image{Extensions: []string{"jpg", "jpeg", "png"}, MaxKB: 1024}}}

	t.Run("png", func(t *testing.T) {
		err := v.Validate(context.Background(), map[string]any{"photo": upload.FromBytes("me.png", pngBytes(t))}, rules)
		assert.NoError(t, err)
	})

	t.Run("jpeg with misleading name", func(t *testing.T) {
		data := encode(t, func(b *bytes.Buffer, m image.Image) error { return jpeg.Encode(b, m, nil) })
		err := v.Validate(context.Background(), map[string]any{"photo": upload.FromBytes("me.txt", data)}, rules)
		assert.NoError(t, err)
	})

	t.Run("gif is rejected", func(t *testing.T) {
		data := encode(t, func(b *bytes.Buffer, m image.Image) error { return gif.Encode(b, m, nil) })
		err := v.Validate(context.Background(), map[string]any{"photo": upload.FromBytes("me.png", data)}, rules)
		fields, ok := Fields(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must be a file of type: jpg, jpeg, png"}, fields["photo"])
	})

	t.Run("too large", func(t *testing.T) {
		f := upload.FromBytes("me.png", pngBytes(t))
		f.Size = 1025 * 1024
		err := v.Validate(context.Background(), map[string]any{"photo": f}, rules)
		fields, ok := Fields(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must not be greater than 1024 kilobytes"}, fields["photo"])
	})

	t.Run("not an upload", func(t *testing.T) {
		err := v.Validate(context.Background(), map[string]any{"photo": "http://x/y.png"}, rules)
		fields, ok := Fields(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must be an image"}, fields["photo"])
	})

	t.Run("absent is allowed", func(t *testing.T) {
		assert.NoError(t, v.Validate(context.Background(), map[string]any{}, rules))
	})
}

func TestErrorFormatting(t *testing.T) {
	e := NewError("email", "has already been taken")
	e.Add("first_name", "is required")
	assert.Equal(t, "validation failed: email: has already been taken; first_name: is required", e.Error())

	details := ToDetails(e)
	assert.Equal(t, map[string]string{"email": "has already been taken", "first_name": "is required"}, details)
}
