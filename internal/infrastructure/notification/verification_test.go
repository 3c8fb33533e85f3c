package notification

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-account-service/config"
	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-account-service/pkg/mailer"
)

type fakePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, body.(mailer.EmailJob))
	return nil
}

func setup(t *testing.T, sendEnabled bool) (*VerificationMailer, *miniredis.Miniredis, *fakePublisher) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pub := &fakePublisher{}
	cfg := &config.Config{
		AppName:         "account-service",
		VerifyEmailURL:  "https://app.test/verify-email",
		VerifyEmailTTL:  time.Hour,
		MailSendEnabled: sendEnabled,
	}
	return NewVerificationMailer(rdb, pub, cfg, nil), mr, pub
}

func tokenFrom(t *testing.T, job mailer.EmailJob) string {
	t.Helper()
	u, err := url.Parse(job.Data["VerifyURL"].(string))
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestSendEmailVerification_QueuesJobAndStoresToken(t *testing.T) {
	m, mr, pub := setup(t, true)
	a := &entity.Account{ID: "acc-1", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}

	require.NoError(t, m.SendEmailVerification(context.Background(), a))
	require.Len(t, pub.jobs, 1)

	job := pub.jobs[0]
	assert.Equal(t, "jane@example.com", job.To)
	assert.Equal(t, "universal", job.Template)
	assert.Equal(t, "verify_email", job.Data["Type"])
	assert.Equal(t, "Jane Doe", job.Data["Name"])

	token := tokenFrom(t, job)
	require.Len(t, token, 64)
	key := "account:verify:" + token
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	id, email, err := m.Consume(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)
	assert.Equal(t, "jane@example.com", email)

	_, _, err = m.Consume(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenNotFound, "tokens are single use")
}

func TestSendEmailVerification_Expiry(t *testing.T) {
	m, mr, pub := setup(t, true)
	require.NoError(t, m.SendEmailVerification(context.Background(), &entity.Account{ID: "acc-1", Email: "a@example.com"}))

	mr.FastForward(2 * time.Hour)
	_, _, err := m.Consume(context.Background(), tokenFrom(t, pub.jobs[0]))
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestSendEmailVerification_MailDisabled(t *testing.T) {
	m, mr, pub := setup(t, false)
	require.NoError(t, m.SendEmailVerification(context.Background(), &entity.Account{ID: "acc-1", Email: "a@example.com"}))

	assert.Empty(t, pub.jobs)
	assert.Len(t, mr.Keys(), 1)
}

func TestSendEmailVerification_PublishFailure(t *testing.T) {
	m, _, pub := setup(t, true)
	pub.err = errors.New("broker down")

	err := m.SendEmailVerification(context.Background(), &entity.Account{ID: "acc-1", Email: "a@example.com"})
	assert.EqualError(t, err, "broker down")
}

func TestConsume_Unknown(t *testing.T) {
	m, _, _ := setup(t, true)
	_, _, err := m.Consume(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, _, err = m.Consume(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestVerifyURL(t *testing.T) {
	assert.Equal(t, "https://app.test/verify?lang=en&token=abc", VerifyURL("https://app.test/verify?lang=en", "abc"))
}
