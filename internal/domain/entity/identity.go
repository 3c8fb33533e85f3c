package entity

import "github.com/google/uuid"

// AssignIdentity gives the account a random v4 UUID unless it already has one.
// It must run right before the first insert and never on updates.
func AssignIdentity(a *Account) {
	if a.ID != "" {
		return
	}
	a.ID = uuid.NewString()
}
