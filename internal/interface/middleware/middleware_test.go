package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type sessionSet map[string]string

func (s sessionSet) SessionActive(_ context.Context, accountID, sid string) bool {
	return s[accountID] == sid
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	token, _, err := jwt.GenerateAccessToken("acc-1", "sid-1")
	require.NoError(t, err)

	sessions := sessionSet{"acc-1": "sid-1"}
	r := gin.New()
	r.GET("/me", Auth(sessions, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxAccountIDKey))
	})

	get := func(mutate func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if mutate != nil {
			mutate(req)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get(func(req *http.Request) { req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: token}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acc-1", w.Body.String())

	w = get(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, get(nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(func(req *http.Request) { req.Header.Set("Authorization", "Bearer junk") }).Code)

	sessions["acc-1"] = "sid-2"
	w = get(func(req *http.Request) { req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: token}) })
	assert.Equal(t, http.StatusUnauthorized, w.Code, "rotated session rejects old token")
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.GET("/x", RateLimit(rdb, 2, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	mr.FastForward(time.Minute + time.Second)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit_BypassAndFailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), AnyOf(AllowPrivateIP())), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Real-IP", "10.0.0.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	mr.Close()
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Real-IP", "203.0.113.9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code, "redis down fails open")
	}
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "192.0.2.4")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "192.0.2.4", w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid", w.Body.String())
}
