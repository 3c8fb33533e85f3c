package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// Account is the aggregate root for the account domain.
// Password holds a bcrypt hash, never the plain text.
type Account struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Password        string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	RememberToken   string     `json:"-"`

	Photo     ProfilePhoto `json:"-"`
	TwoFactor TwoFactor    `json:"-"`

	// RequiresEmailVerification is fixed when the account is built and decides
	// whether an email change resets verification.
	RequiresEmailVerification bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount returns an empty account carrying the verification capability flag.
func NewAccount(requiresEmailVerification bool) *Account {
	return &Account{RequiresEmailVerification: requiresEmailVerification}
}

// Fillable lists the attributes Fill is allowed to write.
var Fillable = []string{"first_name", "last_name"}

// Fill mass-assigns allow-listed attributes. Unknown keys are ignored.
func (a *Account) Fill(attrs Attributes) {
	if v, ok := attrs.String("first_name"); ok {
		a.FirstName = v
	}
	if v, ok := attrs.String("last_name"); ok {
		a.LastName = v
	}
}

// Name is the display name built from first and last name.
func (a *Account) Name() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// HasVerifiedEmail reports whether the current email address was verified.
func (a *Account) HasVerifiedEmail() bool {
	return a.EmailVerifiedAt != nil
}

// MarkEmailAsVerified stamps the verification time.
func (a *Account) MarkEmailAsVerified(at time.Time) {
	t := at.UTC()
	a.EmailVerifiedAt = &t
}

// ChangeEmail sets a new address. It reports whether the address actually changed;
// when it did and the account requires verification, the verified stamp is cleared.
func (a *Account) ChangeEmail(email string) bool {
	if email == a.Email {
		return false
	}
	a.Email = email
	if a.RequiresEmailVerification {
		a.EmailVerifiedAt = nil
	}
	return true
}

// ProfilePhotoURL returns the stored photo URL or a generated avatar.
func (a *Account) ProfilePhotoURL() string {
	return a.Photo.URLFor(a.Name())
}

// MarshalJSON hides credentials and appends profile_photo_url.
func (a Account) MarshalJSON() ([]byte, error) {
	type plain Account
	return json.Marshal(struct {
		plain
		ProfilePhotoPath *string `json:"profile_photo_path"`
		ProfilePhotoURL  string  `json:"profile_photo_url"`
	}{
		plain:            plain(a),
		ProfilePhotoPath: a.Photo.PathOrNil(),
		ProfilePhotoURL:  a.ProfilePhotoURL(),
	})
}
