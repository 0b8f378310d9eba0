package product

import (
	"math"
	"sync"
	"testing"
)

func seedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Cat Toy", Category: "toys", CategoryFor: []string{"cats"}, NewPrice: 500, OldPrice: 1000, Available: true},
		{ID: 2, Name: "Dog Ball", Category: "toys", CategoryFor: []string{"dogs"}, NewPrice: 90, OldPrice: 100, Available: true},
		{ID: 3, Name: "Bird Seed", Category: "food", CategoryFor: []string{"birds"}, NewPrice: 50, OldPrice: 50, Available: true},
	}
}

func TestCreateAssignsDenseIDs(t *testing.T) {
	repo := NewInMemoryRepository(seedProducts())
	service := NewService(repo)

	created, err := service.Create(Product{Name: "Fish Flakes", Category: "food"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 4 {
		t.Fatalf("expected id 4, got %d", created.ID)
	}

	// deleting the newest product must not free its identifier
	if err := service.Delete(4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again, err := service.Create(Product{Name: "Hamster Wheel", Category: "toys"})
	if err != nil {
		t.Fatalf("create after delete: %v", err)
	}
	if again.ID != 5 {
		t.Fatalf("expected id 5 after delete, got %d", again.ID)
	}
}

func TestConcurrentCreateUniqueIDs(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := service.Create(Product{Name: "x"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d assigned", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
}

func TestAddRatingFirstRating(t *testing.T) {
	repo := NewInMemoryRepository(seedProducts())
	service := NewService(repo)

	if err := service.AddRating(1, 4); err != nil {
		t.Fatalf("add rating: %v", err)
	}
	p, _ := service.GetByID(1)
	if p.Rating != 4 {
		t.Fatalf("expected rating 4 with no prior raters, got %v", p.Rating)
	}
	if p.RatingCount != 1 {
		t.Fatalf("expected rating count 1, got %d", p.RatingCount)
	}
}

func TestAddRatingIncrementalAverage(t *testing.T) {
	repo := NewInMemoryRepository([]Product{
		{ID: 1, Name: "Cat Toy", Rating: 4.0, RatingCount: 10},
	})
	service := NewService(repo)

	if err := service.AddRating(1, 5); err != nil {
		t.Fatalf("add rating: %v", err)
	}
	p, _ := service.GetByID(1)
	want := (4.0*10 + 5) / 11
	if math.Abs(p.Rating-want) > 1e-9 {
		t.Fatalf("expected rating %v, got %v", want, p.Rating)
	}
	if p.RatingCount != 11 {
		t.Fatalf("expected rating count 11, got %d", p.RatingCount)
	}
}

func TestAddReviewStoresTextAndRating(t *testing.T) {
	repo := NewInMemoryRepository(seedProducts())
	service := NewService(repo)

	if err := service.AddReview(2, "great ball", 5); err != nil {
		t.Fatalf("add review: %v", err)
	}
	p, _ := service.GetByID(2)
	if len(p.Reviews) != 1 {
		t.Fatalf("expected one review, got %d", len(p.Reviews))
	}
	if p.Reviews[0].Text != "great ball" || p.Reviews[0].Rating != 5 {
		t.Fatalf("unexpected review %+v", p.Reviews[0])
	}
	if p.Rating != 5 || p.RatingCount != 1 {
		t.Fatalf("aggregate not updated: rating=%v count=%d", p.Rating, p.RatingCount)
	}
}

func TestFeaturedRanksByDiscount(t *testing.T) {
	repo := NewInMemoryRepository([]Product{
		{ID: 1, Name: "half off", NewPrice: 50, OldPrice: 100},
		{ID: 2, Name: "ten off", NewPrice: 90, OldPrice: 100},
		{ID: 3, Name: "full price", NewPrice: 100, OldPrice: 100},
		{ID: 4, Name: "quarter off", NewPrice: 75, OldPrice: 100},
		{ID: 5, Name: "no old price", NewPrice: 20, OldPrice: 0},
	})
	service := NewService(repo)

	featured, err := service.Featured()
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 3 {
		t.Fatalf("expected 3 discounted products, got %d", len(featured))
	}
	if featured[0].ID != 1 || featured[1].ID != 4 || featured[2].ID != 2 {
		t.Fatalf("unexpected order: %d, %d, %d", featured[0].ID, featured[1].ID, featured[2].ID)
	}
}

func TestRelatedLimitsToFour(t *testing.T) {
	seed := make([]Product, 0, 6)
	for i := 1; i <= 6; i++ {
		seed = append(seed, Product{ID: i, Name: "toy", Category: "toys"})
	}
	service := NewService(NewInMemoryRepository(seed))

	related, err := service.Related("toys")
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	if len(related) != 4 {
		t.Fatalf("expected 4 related products, got %d", len(related))
	}
	// newest first
	if related[0].ID != 6 {
		t.Fatalf("expected newest product first, got id %d", related[0].ID)
	}
}

func TestNewCollectionsNewestFirst(t *testing.T) {
	seed := make([]Product, 0, 10)
	for i := 1; i <= 10; i++ {
		seed = append(seed, Product{ID: i, Name: "p"})
	}
	service := NewService(NewInMemoryRepository(seed))

	got, err := service.NewCollections()
	if err != nil {
		t.Fatalf("new collections: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 products, got %d", len(got))
	}
	if got[0].ID != 10 || got[7].ID != 3 {
		t.Fatalf("unexpected window: first=%d last=%d", got[0].ID, got[7].ID)
	}
}

func TestListFilters(t *testing.T) {
	repo := NewInMemoryRepository([]Product{
		{ID: 1, Name: "Squeaky Ball", Category: "toys", CategoryFor: []string{"dogs"}},
		{ID: 2, Name: "Ball of Yarn", Category: "toys", CategoryFor: []string{"cats"}},
		{ID: 3, Name: "Chew Bone", Category: "toys", CategoryFor: []string{"dogs"}},
		{ID: 4, Name: "Ball Pit", Category: "furniture", CategoryFor: []string{"cats"}},
	})
	service := NewService(repo)

	got, total, err := service.List(ListFilter{Category: "toys", Search: "ball"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected 2 matches, got total=%d len=%d", total, len(got))
	}

	got, total, err = service.List(ListFilter{Pet: "cats"})
	if err != nil {
		t.Fatalf("list by pet: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 cat products, got %d", total)
	}
	for _, p := range got {
		if p.CategoryFor[0] != "cats" {
			t.Fatalf("non-cat product in result: %+v", p)
		}
	}
}

func TestListPagination(t *testing.T) {
	seed := make([]Product, 0, 12)
	for i := 1; i <= 12; i++ {
		seed = append(seed, Product{ID: i, Name: "p", Category: "toys"})
	}
	service := NewService(NewInMemoryRepository(seed))

	got, total, err := service.List(ListFilter{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 12 {
		t.Fatalf("expected total 12, got %d", total)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 products on page 2, got %d", len(got))
	}
	// newest first: page 2 of limit 5 covers ids 7..3
	if got[0].ID != 7 || got[4].ID != 3 {
		t.Fatalf("unexpected page window: first=%d last=%d", got[0].ID, got[4].ID)
	}

	empty, total, err := service.List(ListFilter{Page: 4, Limit: 5})
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if total != 12 || len(empty) != 0 {
		t.Fatalf("expected empty page past end, got %d items", len(empty))
	}
}
