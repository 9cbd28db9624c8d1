package store

import (
	"context"
	"sync"
	"time"

	"authgate/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory UserStore used by tests. A single mutex
// serializes every operation, which also makes ConsumeResetToken's
// match-and-clear atomic.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*models.User)}
}

func (s *MemoryStore) Create(_ context.Context, name, email, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      models.DefaultRole,
		CreatedAt: time.Now(),
	}
	s.users[user.ID.Hex()] = user
	return copyUser(user), nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (s *MemoryStore) UpdateDetails(_ context.Context, id, name, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if email != "" && email != u.Email {
		for _, other := range s.users {
			if other.Email == email {
				return nil, ErrDuplicateEmail
			}
		}
		u.Email = email
	}
	if name != "" {
		u.Name = name
	}
	return copyUser(u), nil
}

func (s *MemoryStore) SetPassword(_ context.Context, id, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	return nil
}

func (s *MemoryStore) SaveResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.ResetPasswordToken = tokenHash
	u.ResetPasswordExpire = expiresAt
	return nil
}

func (s *MemoryStore) ClearResetToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = time.Time{}
	return nil
}

func (s *MemoryStore) ConsumeResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetPasswordToken == tokenHash && u.ResetPasswordExpire.After(now) {
			prior := copyUser(u)
			u.ResetPasswordToken = ""
			u.ResetPasswordExpire = time.Time{}
			return prior, nil
		}
	}
	return nil, ErrNotFound
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}
