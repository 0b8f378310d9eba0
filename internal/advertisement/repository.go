package advertisement

import (
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Repository interface {
	// Create assigns the next sequential adid and persists the entry.
	Create(ad Advertisement) (Advertisement, error)
	// List returns all advertisements, newest first.
	List() ([]Advertisement, error)
}

// InMemoryRepository for tests and local seeding.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Advertisement
	nextID  int
}

func NewInMemoryRepository(seed []Advertisement) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Advertisement, 0, len(seed))}
	maxID := 0
	for _, ad := range seed {
		if ad.OID.IsZero() {
			ad.OID = primitive.NewObjectID()
		}
		r.storage = append(r.storage, ad)
		if ad.ID > maxID {
			maxID = ad.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(ad Advertisement) (Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad.ID = r.nextID
	r.nextID++
	if ad.OID.IsZero() {
		ad.OID = primitive.NewObjectID()
	}
	r.storage = append(r.storage, ad)
	return ad, nil
}

func (r *InMemoryRepository) List() ([]Advertisement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Advertisement, len(r.storage))
	copy(out, r.storage)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
