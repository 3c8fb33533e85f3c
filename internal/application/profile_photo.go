package application

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-account-service/pkg/upload"
)

// ProfilePhotos stores account photos on the configured object storage.
type ProfilePhotos struct {
	Storage PhotoStorage
	Dir     string
	Logger  *logrus.Logger
}

func NewProfilePhotos(storage PhotoStorage, dir string, logger *logrus.Logger) *ProfilePhotos {
	if dir == "" {
		dir = "profile-photos"
	}
	return &ProfilePhotos{Storage: storage, Dir: dir, Logger: logger}
}

// Store uploads f and points a at it. The previous object is left in place.
func (p *ProfilePhotos) Store(ctx context.Context, a *entity.Account, f *upload.File) error {
	if p == nil || p.Storage == nil {
		return fmt.Errorf("%w: storage not configured", ErrPhotoStorage)
	}
	mt, err := f.DetectMIME()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPhotoStorage, err)
	}
	ext := mt.Extension()
	if ext == "" {
		ext = f.Ext()
	}
	key := path.Join(p.Dir, a.ID, uuid.NewString()+ext)

	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPhotoStorage, err)
	}
	defer func() { _ = r.Close() }()

	if err := p.Storage.Put(ctx, key, r, f.Size, mt.String()); err != nil {
		if p.Logger != nil {
			p.Logger.WithError(err).WithField("account_id", a.ID).Error("profile photo upload failed")
		}
		return fmt.Errorf("%w: %w", ErrPhotoStorage, err)
	}
	a.Photo = entity.ProfilePhoto{Path: key, URL: p.Storage.URL(key)}
	return nil
}

// Resolve fills the public URL of a stored photo.
func (p *ProfilePhotos) Resolve(a *entity.Account) {
	if p == nil || p.Storage == nil || a == nil || a.Photo.Path == "" {
		return
	}
	a.Photo.URL = p.Storage.URL(a.Photo.Path)
}

// Discard removes an object, logging instead of failing.
func (p *ProfilePhotos) Discard(ctx context.Context, key string) {
	if p == nil || p.Storage == nil || key == "" {
		return
	}
	if err := p.Storage.Delete(ctx, key); err != nil && p.Logger != nil {
		p.Logger.WithError(err).WithField("key", key).Warn("profile photo delete failed")
	}
}
