package users

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"classtrack/internal/auth"
)

// userStore is the persistence surface the service works against.
type userStore interface {
	Insert(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	StudentByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, p Patch) (User, error)
	Delete(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int, error)
}

// Service coordinates account management on top of the repository.
type Service struct {
	repo userStore
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account, storing only the salted password hash.
func (s *Service) Register(ctx context.Context, name, email, password string, role auth.Role) (User, error) {
	if !role.Valid() {
		return User{}, errors.New("invalid role")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
	}
	return s.repo.Insert(ctx, u)
}

// Authenticate verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns a single user.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all users, newest first.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Update applies an admin patch to a user.
func (s *Service) Update(ctx context.Context, id string, p Patch) (User, error) {
	if p.Empty() {
		return User{}, errors.New("no fields to update")
	}
	if p.Role != nil && !p.Role.Valid() {
		return User{}, errors.New("invalid role")
	}
	if p.Email != nil {
		normalized := normalizeEmail(*p.Email)
		p.Email = &normalized
	}
	return s.repo.Update(ctx, id, p)
}

// Delete removes a user. Deleting the sole remaining admin is refused so the
// system is never left without one.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == auth.RoleAdmin {
		count, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAdmin
		}
	}
	return s.repo.Delete(ctx, id)
}

// StudentByEmail resolves a student account for manual attendance adds.
func (s *Service) StudentByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.StudentByEmail(ctx, normalizeEmail(email))
}

// EnsureAdmin bootstraps the first admin account from config when no admin
// exists yet. A no-op once any admin is present.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if _, err := s.Register(ctx, name, email, password, auth.RoleAdmin); err != nil {
		return err
	}
	log.Printf("bootstrap admin created: %s", email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
