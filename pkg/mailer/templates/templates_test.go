package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-account-service/config"
)

func TestRenderUniversalVerifyEmail(t *testing.T) {
	cfg := &config.Config{AppName: "account-service", CompanyName: "Acme"}
	data := NewVerifyEmailData(cfg, "Jane Doe", "jane@example.com", "https://app.test/verify?token=abc",
		WithExpiresAt(time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)))

	subject, text, html, err := Render(Universal, data)
	require.NoError(t, err)

	assert.Equal(t, "Verify your email address", subject)
	assert.Contains(t, text, "Hi Jane Doe,")
	assert.Contains(t, text, "https://app.test/verify?token=abc")
	assert.Contains(t, text, "02 January 2026, 15:04")
	assert.Contains(t, html, `href="https://app.test/verify?token=abc"`)
	assert.Contains(t, html, "Acme")
}

func TestRenderUniversalFallbacks(t *testing.T) {
	subject, text, _, err := Render(Universal, map[string]any{"Type": "other", "AppName": "svc"})
	require.NoError(t, err)
	assert.Equal(t, "svc notification", subject)
	assert.Contains(t, text, "Hi there,")
}
