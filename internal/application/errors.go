package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrNoPhoto            = errors.New("no profile photo")

	// ErrPersistence marks storage failures; they are never validation errors.
	ErrPersistence = errors.New("persistence failure")
	// ErrPhotoStorage marks failures of the profile photo backend.
	ErrPhotoStorage = errors.New("photo storage failure")
)
