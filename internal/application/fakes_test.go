package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-account-service/internal/domain/repository"
)

// memRepo enforces the email unique constraint the way the database does.
type memRepo struct {
	mu        sync.Mutex
	byID      map[string]entity.Account
	creates   int
	updates   int
	createErr error
	updateErr error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]entity.Account{}}
}

func (r *memRepo) emailOwner(email string) (string, bool) {
	for id, a := range r.byID {
		if a.Email == email {
			return id, true
		}
	}
	return "", false
}

func (r *memRepo) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, taken := r.emailOwner(a.Email); taken {
		return repo.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	r.byID[a.ID] = *a
	r.creates++
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.emailOwner(email)
	if !ok {
		return nil, repo.ErrNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *memRepo) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[a.ID]; !ok {
		return repo.ErrNotFound
	}
	if owner, taken := r.emailOwner(a.Email); taken && owner != a.ID {
		return repo.ErrDuplicateEmail
	}
	a.UpdatedAt = time.Now().UTC()
	r.byID[a.ID] = *a
	r.updates++
	return nil
}

func (r *memRepo) EmailTaken(_ context.Context, email, exceptID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, taken := r.emailOwner(email)
	return taken && owner != exceptID, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type fakeVerifier struct {
	mu      sync.Mutex
	sent    []string
	tokens  map[string][2]string
	sendErr error
}

func (v *fakeVerifier) SendEmailVerification(_ context.Context, a *entity.Account) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sendErr != nil {
		return v.sendErr
	}
	v.sent = append(v.sent, a.Email)
	return nil
}

func (v *fakeVerifier) Consume(_ context.Context, token string) (string, string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.tokens[token]
	if !ok {
		return "", "", errors.New("unknown token")
	}
	delete(v.tokens, token)
	return p[0], p[1], nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string]string
	putErr  error
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string]string{}}
}

func (s *memStorage) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = contentType + ":" + string(b[:min(len(b), 4)])
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) URL(key string) string {
	return "https://cdn.test/" + strings.TrimPrefix(key, "/")
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed []string
}

func (x *fakeIndex) Index(_ context.Context, a *entity.Account) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.indexed = append(x.indexed, a.ID)
	return nil
}

func (x *fakeIndex) Search(context.Context, string, int) ([]map[string]any, error) {
	return []map[string]any{{"id": "acc-1"}}, nil
}

type features bool

func (f features) HasTermsAndPrivacyPolicy() bool { return bool(f) }
