package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-account-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-account-service/pkg/upload"
	"github.com/oksasatya/go-ddd-account-service/pkg/validation"
)

// AccountService creates and updates account records.
type AccountService struct {
	Repo      repo.AccountRepository
	Rules     RulesPolicy
	Validator *validation.Validator
	Hasher    PasswordHasher
	Verifier  EmailVerifier
	Photos    *ProfilePhotos
	Index     AccountIndex
	Logger    *logrus.Logger

	// MustVerifyEmail is copied onto every account built by Create.
	MustVerifyEmail bool
	Now             func() time.Time
}

func NewAccountService(r repo.AccountRepository, rules RulesPolicy, hasher PasswordHasher, verifier EmailVerifier, photos *ProfilePhotos, index AccountIndex, logger *logrus.Logger, mustVerifyEmail bool) *AccountService {
	return &AccountService{
		Repo:            r,
		Rules:           rules,
		Validator:       validation.New(emailUniqueness{repo: r}),
		Hasher:          hasher,
		Verifier:        verifier,
		Photos:          photos,
		Index:           index,
		Logger:          logger,
		MustVerifyEmail: mustVerifyEmail,
		Now:             time.Now,
	}
}

// Create validates attrs (when validate is set), builds a new account and persists it.
// Only first_name, last_name, email and password are taken from attrs.
func (s *AccountService) Create(ctx context.Context, attrs entity.Attributes, validate bool) (*entity.Account, error) {
	if validate {
		if err := s.validate(ctx, attrs, s.Rules.AccountRules(nil)); err != nil {
			return nil, err
		}
	}

	a := entity.NewAccount(s.MustVerifyEmail)
	a.Fill(attrs)
	if email, ok := attrs.String("email"); ok {
		a.Email = email
	}
	if attrs.Filled("password") {
		plain, _ := attrs.String("password")
		hash, err := s.Hasher.Hash(plain)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		a.Password = hash
	}

	entity.AssignIdentity(a)
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, s.persistError(err, a.ID)
	}
	s.Photos.Resolve(a)
	s.index(ctx, a)

	if s.Logger != nil {
		s.Logger.WithField("account_id", a.ID).Info("account created")
	}
	return a, nil
}

// Update validates attrs against the update rules and writes the changes to a.
// a is only modified when the update is persisted. An email key absent from
// attrs leaves the address untouched.
func (s *AccountService) Update(ctx context.Context, a *entity.Account, attrs entity.Attributes, validate bool) (bool, error) {
	if validate {
		if err := s.validate(ctx, attrs, s.Rules.AccountRules(a)); err != nil {
			return false, err
		}
	}

	next := *a
	emailChanged := false
	if email, ok := attrs.String("email"); ok {
		emailChanged = next.ChangeEmail(email)
	}
	next.Fill(attrs)

	if attrs.Filled("password") {
		plain, _ := attrs.String("password")
		hash, err := s.Hasher.Hash(plain)
		if err != nil {
			return false, fmt.Errorf("hash password: %w", err)
		}
		next.Password = hash
	}

	previousPhoto := ""
	photo, _ := attrs["photo"].(*upload.File)
	if photo != nil {
		previousPhoto = next.Photo.Path
		if err := s.Photos.Store(ctx, &next, photo); err != nil {
			return false, err
		}
	}

	if err := s.Repo.Update(ctx, &next); err != nil {
		if photo != nil {
			s.Photos.Discard(ctx, next.Photo.Path)
		}
		return false, s.persistError(err, a.ID)
	}
	*a = next

	if photo != nil && previousPhoto != "" && previousPhoto != a.Photo.Path {
		s.Photos.Discard(ctx, previousPhoto)
	}
	if emailChanged && a.RequiresEmailVerification {
		s.sendVerification(ctx, a)
	}
	s.index(ctx, a)
	return true, nil
}

// DeleteProfilePhoto clears the stored photo and removes the object.
func (s *AccountService) DeleteProfilePhoto(ctx context.Context, a *entity.Account) error {
	if a.Photo.Empty() {
		return ErrNoPhoto
	}
	next := *a
	old := next.Photo.Path
	next.Photo = entity.ProfilePhoto{}
	if err := s.Repo.Update(ctx, &next); err != nil {
		return s.persistError(err, a.ID)
	}
	*a = next
	s.Photos.Discard(ctx, old)
	s.index(ctx, a)
	return nil
}

// GetAccount loads an account with its photo URL resolved.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	a.RequiresEmailVerification = s.MustVerifyEmail
	s.Photos.Resolve(a)
	return a, nil
}

// VerifyEmail redeems a verification token. The token must have been issued
// for the account's current address.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (*entity.Account, error) {
	if s.Verifier == nil {
		return nil, ErrInvalidToken
	}
	id, email, err := s.Verifier.Consume(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	a, err := s.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if a.Email != email {
		return nil, ErrInvalidToken
	}
	if a.HasVerifiedEmail() {
		return a, nil
	}

	next := *a
	next.MarkEmailAsVerified(s.now())
	if err := s.Repo.Update(ctx, &next); err != nil {
		return nil, s.persistError(err, a.ID)
	}
	*a = next
	if s.Logger != nil {
		s.Logger.WithField("account_id", a.ID).Info("email verified")
	}
	return a, nil
}

// ResendVerification sends a new verification notification for an unverified address.
func (s *AccountService) ResendVerification(ctx context.Context, a *entity.Account) error {
	if !a.RequiresEmailVerification || a.HasVerifiedEmail() {
		return ErrAlreadyVerified
	}
	if s.Verifier == nil {
		return nil
	}
	return s.Verifier.SendEmailVerification(ctx, a)
}

// SendRegistrationVerification notifies a freshly registered account.
func (s *AccountService) SendRegistrationVerification(ctx context.Context, a *entity.Account) {
	if a.RequiresEmailVerification && !a.HasVerifiedEmail() {
		s.sendVerification(ctx, a)
	}
}

// SearchAccounts queries the account index.
func (s *AccountService) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, q, size)
}

func (s *AccountService) validate(ctx context.Context, attrs entity.Attributes, rules validation.RuleSet) error {
	err := s.Validator.Validate(ctx, attrs, rules)
	if err == nil {
		return nil
	}
	if _, ok := validation.Fields(err); ok {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// persistError turns a lost uniqueness race into the same field error the
// Unique rule reports.
func (s *AccountService) persistError(err error, accountID string) error {
	if errors.Is(err, repo.ErrDuplicateEmail) {
		return validation.NewError("email", "has already been taken")
	}
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Error("account persist failed")
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func (s *AccountService) sendVerification(ctx context.Context, a *entity.Account) {
	if s.Verifier == nil {
		return
	}
	if err := s.Verifier.SendEmailVerification(ctx, a); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Warn("send email verification failed")
	}
}

func (s *AccountService) index(ctx context.Context, a *entity.Account) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, a); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Warn("account index failed")
	}
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
