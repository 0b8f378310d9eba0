package product

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	relatedLimit       = 4
	newCollectionLimit = 8
	featuredLimit      = 4
)

// ServiceInterface is the surface other packages (the order workflow)
// depend on.
type ServiceInterface interface {
	GetByID(id int) (Product, error)
	GetByOIDs(oids []primitive.ObjectID) ([]Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(f ListFilter) ([]Product, int, error) {
	return s.repo.List(f)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByOIDs(oids []primitive.ObjectID) ([]Product, error) {
	return s.repo.GetByOIDs(oids)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) SetAvailability(id int, available bool) error {
	return s.repo.SetAvailability(id, available)
}

// AddReview appends a review and folds its rating into the running average:
// (R·n + r) / (n+1). O(1) per review; the stored aggregate is never
// recomputed from the review list.
func (s *Service) AddReview(id int, text string, rating float64) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	newRating := nextAverage(p.Rating, p.RatingCount, rating)
	return s.repo.AppendReview(id, Review{Text: text, Rating: rating}, newRating)
}

// AddRating applies the same incremental average without a review entry.
func (s *Service) AddRating(id int, rating float64) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	return s.repo.BumpRating(id, nextAverage(p.Rating, p.RatingCount, rating))
}

func nextAverage(current float64, count int, incoming float64) float64 {
	return (current*float64(count) + incoming) / float64(count+1)
}

// Related returns the most recent products sharing a category.
func (s *Service) Related(category string) ([]Product, error) {
	return s.repo.ListByCategory(category, relatedLimit)
}

// NewCollections returns the most recently added products.
func (s *Service) NewCollections() ([]Product, error) {
	return s.repo.ListNewest(newCollectionLimit)
}

// Featured returns the products with the steepest discounts.
func (s *Service) Featured() ([]Product, error) {
	return s.repo.ListTopDiscount(featuredLimit)
}
