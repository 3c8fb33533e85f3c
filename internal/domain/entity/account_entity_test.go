package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignIdentity(t *testing.T) {
	t.Run("assigns v4 uuid when missing", func(t *testing.T) {
		a := NewAccount(true)
		AssignIdentity(a)

		id, err := uuid.Parse(a.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
		assert.Equal(t, id.String(), a.ID)
	})

	t.Run("keeps preset id", func(t *testing.T) {
		a := &Account{ID: "0b0f2c4e-8a43-4a3e-9a55-0a8f4d7f3a11"}
		AssignIdentity(a)
		assert.Equal(t, "0b0f2c4e-8a43-4a3e-9a55-0a8f4d7f3a11", a.ID)
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		a := NewAccount(false)
		AssignIdentity(a)
		first := a.ID
		AssignIdentity(a)
		assert.Equal(t, first, a.ID)
	})
}

func TestAccount_Fill(t *testing.T) {
	a := &Account{Email: "old@example.com", Password: "hash"}
	a.Fill(Attributes{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "new@example.com",
		"password":   "secret",
		"id":         "forged",
	})

	assert.Equal(t, "Jane", a.FirstName)
	assert.Equal(t, "Doe", a.LastName)
	assert.Equal(t, "old@example.com", a.Email)
	assert.Equal(t, "hash", a.Password)
	assert.Empty(t, a.ID)
}

func TestAccount_ChangeEmail(t *testing.T) {
	verified := time.Now()

	t.Run("requires verification", func(t *testing.T) {
		a := &Account{Email: "a@example.com", EmailVerifiedAt: &verified, RequiresEmailVerification: true}
		assert.True(t, a.ChangeEmail("b@example.com"))
		assert.Equal(t, "b@example.com", a.Email)
		assert.Nil(t, a.EmailVerifiedAt)
	})

	t.Run("same address", func(t *testing.T) {
		a := &Account{Email: "a@example.com", EmailVerifiedAt: &verified, RequiresEmailVerification: true}
		assert.False(t, a.ChangeEmail("a@example.com"))
		assert.NotNil(t, a.EmailVerifiedAt)
	})

	t.Run("no verification capability", func(t *testing.T) {
		a := &Account{Email: "a@example.com", EmailVerifiedAt: &verified}
		assert.True(t, a.ChangeEmail("b@example.com"))
		assert.NotNil(t, a.EmailVerifiedAt)
	})
}

func TestAccount_MarkEmailAsVerified(t *testing.T) {
	a := &Account{}
	assert.False(t, a.HasVerifiedEmail())
	a.MarkEmailAsVerified(time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)))
	require.True(t, a.HasVerifiedEmail())
	assert.Equal(t, time.UTC, a.EmailVerifiedAt.Location())
}

func TestAccount_MarshalJSON(t *testing.T) {
	a := Account{
		ID:            "id-1",
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "jane@example.com",
		Password:      "$2a$10$hash",
		RememberToken: "remember",
		TwoFactor:     TwoFactor{Secret: "secret", RecoveryCodes: `["a","b"]`},
	}

	b, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))

	for _, hidden := range []string{"password", "Password", "remember_token", "RememberToken", "two_factor_secret", "two_factor_recovery_codes", "TwoFactor", "Photo"} {
		assert.NotContains(t, out, hidden)
	}
	assert.NotContains(t, string(b), "$2a$10$hash")
	assert.NotContains(t, string(b), "remember")
	assert.Equal(t, "id-1", out["id"])
	assert.Equal(t, "jane@example.com", out["email"])
	assert.Nil(t, out["profile_photo_path"])
	assert.Equal(t, "https://ui-avatars.com/api/?name=J+D&color=7F9CF5&background=EBF4FF", out["profile_photo_url"])
}

func TestAccount_MarshalJSON_StoredPhoto(t *testing.T) {
	a := &Account{FirstName: "Jane", Photo: ProfilePhoto{Path: "profile-photos/x.png", URL: "https://cdn.test/profile-photos/x.png"}}

	b, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "profile-photos/x.png", out["profile_photo_path"])
	assert.Equal(t, "https://cdn.test/profile-photos/x.png", out["profile_photo_url"])
}
