package product

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("product not found")
)

// ListFilter narrows and pages the catalog listing. Category matches
// exactly; Search is a case-insensitive substring over name, both
// description text fields and the audience tags; Pet is an independent
// substring filter on the audience tags alone.
type ListFilter struct {
	Category string
	Search   string
	Pet      string
	Page     int
	Limit    int
}

type Repository interface {
	// List returns one page of matching products (newest first) plus the
	// total match count across all pages.
	List(f ListFilter) ([]Product, int, error)
	GetByID(id int) (Product, error)
	// GetByOIDs resolves storage-internal identifiers, used for the
	// read-time join of order line items.
	GetByOIDs(oids []primitive.ObjectID) ([]Product, error)
	// Create assigns the next business identifier and persists the product.
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
	SetAvailability(id int, available bool) error
	// AppendReview pushes a review entry and applies the precomputed
	// aggregate in one write; the rating count increments alongside.
	AppendReview(id int, rev Review, newRating float64) error
	// BumpRating applies a new aggregate without a review entry.
	BumpRating(id int, newRating float64) error
	ListByCategory(category string, limit int) ([]Product, error)
	ListNewest(limit int) ([]Product, error)
	ListTopDiscount(limit int) ([]Product, error)
}

// matchesSearch reports whether p matches the free-text search term.
// Sub-conditions combine with OR, mirroring the Mongo $or filter.
func matchesSearch(p Product, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description.Plain), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description.Formatted), term) {
		return true
	}
	return matchesTag(p, term)
}

func matchesTag(p Product, term string) bool {
	term = strings.ToLower(term)
	for _, tag := range p.CategoryFor {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// InMemoryRepository is a mutex-guarded implementation used by tests and
// local seeding. Identifier assignment mirrors the Mongo counter: dense,
// monotonic, race-free.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed))}

	maxID := 0
	for _, p := range seed {
		if p.OID.IsZero() {
			p.OID = primitive.NewObjectID()
		}
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(f ListFilter) ([]Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !matchesSearch(p, f.Search) {
			continue
		}
		if f.Pet != "" && !matchesTag(p, f.Pet) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= total {
		return []Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := make([]Product, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) GetByOIDs(oids []primitive.ObjectID) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(oids))
	for _, oid := range oids {
		for _, p := range r.storage {
			if p.OID == oid {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	if p.OID.IsZero() {
		p.OID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			p.ID = id
			p.OID = r.storage[i].OID
			r.storage[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetAvailability(id int, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Available = available
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) AppendReview(id int, rev Review, newRating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Reviews = append(r.storage[i].Reviews, rev)
			r.storage[i].Rating = newRating
			r.storage[i].RatingCount++
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) BumpRating(id int, newRating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Rating = newRating
			r.storage[i].RatingCount++
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) ListByCategory(category string, limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]Product, 0)
	for _, p := range r.storage {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *InMemoryRepository) ListNewest(limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) ListTopDiscount(limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0)
	for _, p := range r.storage {
		if p.DiscountPercent() > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DiscountPercent() > out[j].DiscountPercent() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
