package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
)

// PasswordHasher is a one-way salted hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Features answers site-wide feature flags.
type Features interface {
	HasTermsAndPrivacyPolicy() bool
}

// EmailVerifier issues verification notifications and redeems their tokens.
type EmailVerifier interface {
	SendEmailVerification(ctx context.Context, a *entity.Account) error
	// Consume resolves a token to the account ID and the email it was issued for,
	// and invalidates it.
	Consume(ctx context.Context, token string) (accountID, email string, err error)
}

// PhotoStorage is the object store behind profile photos.
type PhotoStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// AccountIndex is the search index for accounts.
type AccountIndex interface {
	Index(ctx context.Context, a *entity.Account) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}
