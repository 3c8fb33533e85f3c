package notification

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/config"
	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-account-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-account-service/pkg/mailer/templates"
)

// ErrTokenNotFound is returned for unknown, expired or already used tokens.
var ErrTokenNotFound = errors.New("verification token not found")

// JobPublisher puts email jobs on the queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type pendingVerification struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// VerificationMailer issues single-use email verification links.
// Tokens live in Redis; the email itself is rendered and sent by the email worker.
type VerificationMailer struct {
	Redis     redis.Cmdable
	Publisher JobPublisher
	Config    *config.Config
	Logger    *logrus.Logger
	Now       func() time.Time
}

func NewVerificationMailer(rdb redis.Cmdable, pub JobPublisher, cfg *config.Config, logger *logrus.Logger) *VerificationMailer {
	return &VerificationMailer{Redis: rdb, Publisher: pub, Config: cfg, Logger: logger, Now: time.Now}
}

// SendEmailVerification stores a fresh token for the account's current address and queues the email.
func (m *VerificationMailer) SendEmailVerification(ctx context.Context, a *entity.Account) error {
	token, err := helpers.RandomToken(32)
	if err != nil {
		return err
	}
	ttl := m.Config.VerifyEmailTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := helpers.RedisSetJSON(ctx, m.Redis, helpers.KeyEmailVerification(token), pendingVerification{AccountID: a.ID, Email: a.Email}, ttl); err != nil {
		return err
	}

	if !m.Config.MailSendEnabled || m.Publisher == nil {
		if m.Logger != nil {
			m.Logger.WithField("account_id", a.ID).Debug("mail sending disabled; verification email not queued")
		}
		return nil
	}

	data := mailtpl.NewVerifyEmailData(m.Config, a.Name(), a.Email, VerifyURL(m.Config.VerifyEmailURL, token),
		mailtpl.WithExpiresAt(m.now().Add(ttl)))
	job := mailer.EmailJob{To: a.Email, Template: mailtpl.Universal, Data: data}
	if err := m.Publisher.PublishJSON(ctx, job); err != nil {
		return err
	}
	if m.Logger != nil {
		m.Logger.WithField("account_id", a.ID).Info("verification email queued")
	}
	return nil
}

// Consume redeems token once.
func (m *VerificationMailer) Consume(ctx context.Context, token string) (string, string, error) {
	if token == "" {
		return "", "", ErrTokenNotFound
	}
	var p pendingVerification
	ok, err := helpers.RedisTakeJSON(ctx, m.Redis, helpers.KeyEmailVerification(token), &p)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", ErrTokenNotFound
	}
	return p.AccountID, p.Email, nil
}

// VerifyURL appends the token as a query parameter to base.
func VerifyURL(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (m *VerificationMailer) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
