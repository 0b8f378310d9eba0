package admin

import "golang.org/x/crypto/bcrypt"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate checks the credentials against the stored bcrypt hash.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(email, password string) (Admin, error) {
	a, err := s.repo.GetByEmail(email)
	if err != nil {
		return Admin{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

// Seed creates or updates the operator account, hashing the password if it
// is not already a bcrypt hash. Run at startup from environment config.
func (s *Service) Seed(email, password, username string) error {
	if !looksLikeBcrypt(password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		password = string(hashed)
	}
	return s.repo.Upsert(Admin{Email: email, Password: password, Username: username})
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
