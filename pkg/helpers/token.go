package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// KeyEmailVerification is the Redis key holding a pending email verification.
func KeyEmailVerification(token string) string {
	return "account:verify:" + token
}

// KeySession is the Redis hash holding the active login session of an account.
func KeySession(accountID string) string {
	return "account:session:" + accountID
}

// RandomToken returns n random bytes, hex encoded.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
