package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-account-service/internal/domain/repository"
)

const uniqueViolation = "23505"

// PgxPoolInterface is the part of *pgxpool.Pool the repositories use.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
}

type AccountRepository struct {
	pool PgxPoolInterface
}

func NewAccountRepository(pool PgxPoolInterface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const selectAccount = `
	SELECT id, first_name, last_name, email, password, email_verified_at,
	       COALESCE(remember_token, ''), COALESCE(profile_photo_path, ''),
	       COALESCE(two_factor_secret, ''), COALESCE(two_factor_recovery_codes, ''), two_factor_confirmed_at,
	       created_at, updated_at
	FROM accounts
`

// Create inserts a with its pre-assigned ID. The case-insensitive email index
// decides concurrent registrations.
func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if a.ID == "" {
		return errors.New("account id must be assigned before insert")
	}
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, first_name, last_name, email, password, email_verified_at,
		                      remember_token, profile_photo_path, two_factor_secret,
		                      two_factor_recovery_codes, two_factor_confirmed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11, $12, $12)
		RETURNING created_at, updated_at
	`, a.ID, a.FirstName, a.LastName, a.Email, a.Password, a.EmailVerifiedAt,
		a.RememberToken, a.Photo.Path, a.TwoFactor.Secret, a.TwoFactor.RecoveryCodes, a.TwoFactor.ConfirmedAt, now)

	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return mapWriteError("create account", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE id = $1`, id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE lower(email) = lower($1)`, email)
}

// Update writes every column of a in one statement and refreshes UpdatedAt.
func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	now := time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET first_name = $1, last_name = $2, email = $3, password = $4, email_verified_at = $5,
		    remember_token = NULLIF($6, ''), profile_photo_path = NULLIF($7, ''),
		    two_factor_secret = NULLIF($8, ''), two_factor_recovery_codes = NULLIF($9, ''),
		    two_factor_confirmed_at = $10, updated_at = $11
		WHERE id = $12
	`, a.FirstName, a.LastName, a.Email, a.Password, a.EmailVerifiedAt,
		a.RememberToken, a.Photo.Path, a.TwoFactor.Secret, a.TwoFactor.RecoveryCodes,
		a.TwoFactor.ConfirmedAt, now, a.ID)
	if err != nil {
		return mapWriteError("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	a.UpdatedAt = now
	return nil
}

// EmailTaken compares addresses case-insensitively, matching the unique index.
func (r *AccountRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1) AND ($2 = '' OR id::text <> $2))
	`, email, exceptID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg string) (*entity.Account, error) {
	a := &entity.Account{}
	var photoPath string
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Password, &a.EmailVerifiedAt,
		&a.RememberToken, &photoPath,
		&a.TwoFactor.Secret, &a.TwoFactor.RecoveryCodes, &a.TwoFactor.ConfirmedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	a.Photo.Path = photoPath
	return a, nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation &&
		(pgErr.ConstraintName == "" || strings.Contains(pgErr.ConstraintName, "email")) {
		return repository.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
