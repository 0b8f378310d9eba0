package advertisement

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ad Advertisement) (Advertisement, error) {
	return s.repo.Create(ad)
}

func (s *Service) List() ([]Advertisement, error) {
	return s.repo.List()
}
