package helpers

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	access, exp, err := m.GenerateAccessToken("acc-1", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "sid-1", claims.SessionID)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err, "access token must not pass as refresh token")

	expired := NewJWTManager("access", "refresh", -time.Minute, time.Hour)
	old, _, err := expired.GenerateAccessToken("acc-1", "sid-1")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(old)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := BcryptHasher{Cost: 4}.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CompareHashAndPassword(hash, "secret123"))
	assert.False(t, CompareHashAndPassword(hash, "secret124"))
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestRedisJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	type payload struct {
		ID string `json:"id"`
	}
	require.NoError(t, RedisSetJSON(ctx, rdb, "k", payload{ID: "x"}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	var got payload
	ok, err := RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", got.ID)

	got = payload{}
	ok, err = RedisTakeJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", got.ID)
	assert.False(t, mr.Exists("k"), "take consumes the key")

	ok, err = RedisTakeJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "svc", "production", "warn")
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l = newLogger(&buf, "svc", "development", "")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l = newLogger(&buf, "svc", "production", "loud")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "invalid log level")
}
