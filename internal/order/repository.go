package order

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	// Create assigns the next business identifier and persists the order.
	Create(ord Order) (Order, error)
	GetByID(id int) (Order, error)
	// List returns orders newest first; finished narrows by status when
	// non-nil.
	List(finished *bool) ([]Order, error)
	ListByProductRef(oid primitive.ObjectID) ([]Order, error)
	// SetFinished overwrites the status flag unconditionally; finished
	// orders can be reopened.
	SetFinished(id int, finished bool) error
	// DeleteByProductRef removes every order referencing the product and
	// reports how many were removed.
	DeleteByProductRef(oid primitive.ObjectID) (int, error)
}

// InMemoryRepository backs tests and local runs.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Order
	nextID  int
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Order, 0, len(seed))}

	maxID := 0
	for _, ord := range seed {
		if ord.OID.IsZero() {
			ord.OID = primitive.NewObjectID()
		}
		r.storage = append(r.storage, ord)
		if ord.ID > maxID {
			maxID = ord.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord.ID = r.nextID
	r.nextID++
	if ord.OID.IsZero() {
		ord.OID = primitive.NewObjectID()
	}
	if ord.Date.IsZero() {
		ord.Date = time.Now().UTC()
	}
	r.storage = append(r.storage, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ord := range r.storage {
		if ord.ID == id {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) List(finished *bool) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(r.storage))
	for _, ord := range r.storage {
		if finished != nil && ord.IsFinish != *finished {
			continue
		}
		out = append(out, ord)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) ListByProductRef(oid primitive.ObjectID) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, ord := range r.storage {
		if references(ord, oid) {
			out = append(out, ord)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) SetFinished(id int, finished bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].IsFinish = finished
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) DeleteByProductRef(oid primitive.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.storage[:0]
	removed := 0
	for _, ord := range r.storage {
		if references(ord, oid) {
			removed++
			continue
		}
		kept = append(kept, ord)
	}
	r.storage = kept
	return removed, nil
}

func references(ord Order, oid primitive.ObjectID) bool {
	for _, item := range ord.Items {
		if item.ProductRef == oid {
			return true
		}
	}
	return false
}
