package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-account-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

// AuthService issues and rotates login sessions. One session per account
// lives in Redis; tokens carry its id so a rotated or revoked session
// invalidates older tokens.
type AuthService struct {
	Repo   repo.AccountRepository
	JWT    *helpers.JWTManager
	Redis  redis.Cmdable
	Logger *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(r repo.AccountRepository, jwt *helpers.JWTManager, rdb redis.Cmdable, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate validates email/password and returns the account without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	a, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || a == nil {
		if err != nil && !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).Error("account lookup failed")
		}
		return nil, ErrInvalidCredentials
	}
	if a.Password == "" || !helpers.CompareHashAndPassword(a.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// IssueTokens generates access/refresh tokens and records the session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, a *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(a.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}

	if err := s.saveSession(ctx, a.ID, map[string]any{
		"account_id": a.ID,
		"email":      a.Email,
		"name":       a.Name(),
		"sid":        sid,
		"created_at": nowRFC3339(),
	}); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.Account, TokenPair, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if s.Logger != nil {
		s.Logger.WithField("account_id", a.ID).Info("login")
	}
	return a, pair, nil
}

// Refresh validates a refresh token against the live session and rotates both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	a, err := s.Repo.GetByID(ctx, claims.AccountID)
	if err != nil || a == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if !s.SessionActive(ctx, a.ID, claims.SessionID) {
		return TokenPair{}, "", ErrInvalidCredentials
	}

	sid := uuid.NewString()
	pair, err := s.sign(a.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if err := s.saveSession(ctx, a.ID, map[string]any{
		"sid":        sid,
		"updated_at": nowRFC3339(),
	}); err != nil {
		return TokenPair{}, "", err
	}
	return pair, a.ID, nil
}

// SessionActive reports whether sid is the current session of the account.
// Without Redis every signed token is accepted.
func (s *AuthService) SessionActive(ctx context.Context, accountID, sid string) bool {
	if s.Redis == nil {
		return true
	}
	current, err := s.Redis.HGet(ctx, helpers.KeySession(accountID), "sid").Result()
	return err == nil && current != "" && current == sid
}

// Logout drops the session so outstanding tokens stop working.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, helpers.KeySession(accountID))
}

// saveSession writes the session hash. Tokens carrying a sid that was never
// stored would be rejected by SessionActive, so a failed write fails the caller.
func (s *AuthService) saveSession(ctx context.Context, accountID string, fields map[string]any) error {
	if s.Redis == nil {
		return nil
	}
	key := helpers.KeySession(accountID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Error("save session failed")
		}
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *AuthService) sign(accountID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(accountID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(accountID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}
