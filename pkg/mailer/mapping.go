package mailer

import (
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/go-ddd-account-service/pkg/mailer/templates"
)

// SubjectForUniversal picks the subject line from the job's Type.
func SubjectForUniversal(data map[string]any) string {
	switch strings.ToLower(fmt.Sprintf("%v", data["Type"])) {
	case mailtpl.VerifyEmail:
		return "Verify your email address"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// MapLegacyToUniversal rewrites jobs addressed by type name to the universal template.
func MapLegacyToUniversal(job *EmailJob) {
	if !strings.EqualFold(job.Template, mailtpl.VerifyEmail) {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Type"] = mailtpl.VerifyEmail
	}
	job.Template = mailtpl.Universal
}
