package admin

import (
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repository interface {
	GetByEmail(email string) (Admin, error)
	// Upsert creates or replaces the account with the given email. Used by
	// the startup seed.
	Upsert(a Admin) error
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Admin
}

func NewInMemoryRepository(seed []Admin) *InMemoryRepository {
	r := &InMemoryRepository{storage: make(map[string]Admin, len(seed))}
	for _, a := range seed {
		if a.OID.IsZero() {
			a.OID = primitive.NewObjectID()
		}
		r.storage[a.Email] = a
	}
	return r
}

func (r *InMemoryRepository) GetByEmail(email string) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.storage[email]; ok {
		return a, nil
	}
	return Admin{}, ErrNotFound
}

func (r *InMemoryRepository) Upsert(a Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.OID.IsZero() {
		a.OID = primitive.NewObjectID()
	}
	r.storage[a.Email] = a
	return nil
}
