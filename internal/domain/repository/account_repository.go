package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already taken")
)

// AccountRepository defines the persistence operations for accounts.
// Create and Update are single atomic writes; a unique email constraint
// surfaces as ErrDuplicateEmail.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	// EmailTaken reports whether another account (not exceptID) owns email.
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
}
