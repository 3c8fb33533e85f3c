package entity

import (
	"encoding/json"
	"time"
)

// TwoFactor holds the opaque two-factor material of an account.
// RecoveryCodes is a JSON array as stored in the database.
type TwoFactor struct {
	Secret        string
	RecoveryCodes string
	ConfirmedAt   *time.Time
}

// Enabled reports whether a secret has been issued and confirmed.
func (t TwoFactor) Enabled() bool {
	return t.Secret != "" && t.ConfirmedAt != nil
}

// RecoveryCodeList decodes the stored recovery codes.
func (t TwoFactor) RecoveryCodeList() []string {
	if t.RecoveryCodes == "" {
		return nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(t.RecoveryCodes), &codes); err != nil {
		return nil
	}
	return codes
}

// ReplaceRecoveryCode swaps a used code for a fresh one.
// It reports false when code is not a current recovery code.
func (t *TwoFactor) ReplaceRecoveryCode(code, replacement string) bool {
	codes := t.RecoveryCodeList()
	for i, c := range codes {
		if c == code {
			codes[i] = replacement
			b, _ := json.Marshal(codes)
			t.RecoveryCodes = string(b)
			return true
		}
	}
	return false
}

// Disable wipes all two-factor material.
func (t *TwoFactor) Disable() {
	*t = TwoFactor{}
}
