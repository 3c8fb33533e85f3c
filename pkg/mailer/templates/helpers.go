package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/go-ddd-account-service/config"
)

// Option pattern
type Option func(*EmailData)

func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

func WithExpiresIn(dur time.Duration) Option {
	return WithExpiresAt(time.Now().Add(dur))
}

// NewBaseEmailData fills the common fields from cfg, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           strings.TrimSpace(name),
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
		PrivacyURL: cfg.PrivacyURL,

		VerifyURL: cfg.VerifyEmailURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyEmailData(cfg *config.Config, name, email, verifyURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithVerifyURL(verifyURL)}, opts...)
	d := NewBaseEmailData(cfg, VerifyEmail, name, email, email, opts...)
	return ToMap(d)
}
