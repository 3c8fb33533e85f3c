package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/oksasatya/go-ddd-account-service/pkg/mailer/templates"
)

// ErrBadJob marks messages that can never be delivered and must not be requeued.
var ErrBadJob = errors.New("bad email job")

// Dispatch decodes a queued EmailJob, renders its template and hands it to s.
// Errors wrapping ErrBadJob are permanent; any other error is worth a retry.
func Dispatch(ctx context.Context, body []byte, s Sender) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %w", ErrBadJob, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	EnsureRecipientAndEmail(&job)
	MapLegacyToUniversal(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %w", ErrBadJob, job.Template, err)
		}
	}
	if strings.TrimSpace(subject) == "" {
		subject = SubjectForUniversal(job.Data)
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.Send(c, job.To, subject, text, html)
}
