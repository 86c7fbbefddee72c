package users

import (
	"context"
	"errors"
	"testing"

	"classtrack/internal/auth"
)

// fakeStore keeps users in memory and counts admins the way the real
// repository's query does.
type fakeStore struct {
	byID    map[string]User
	deleted []string
}

func newFakeStore(list ...User) *fakeStore {
	f := &fakeStore{byID: make(map[string]User)}
	for _, u := range list {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeStore) Insert(_ context.Context, u User) (User, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return User{}, ErrDuplicateEmail
		}
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) GetByID(_ context.Context, id string) (User, error) {
	u, ok := f.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) StudentByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.byID {
		if u.Email == email && u.Role == auth.RoleStudent {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) List(context.Context) ([]User, error) { return nil, nil }

func (f *fakeStore) Update(_ context.Context, id string, p Patch) (User, error) {
	return User{}, ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) CountAdmins(context.Context) (int, error) {
	count := 0
	for _, u := range f.byID {
		if u.Role == auth.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func TestDeleteRefusesLastAdmin(t *testing.T) {
	store := newFakeStore(User{ID: "a1", Email: "admin@school.edu", Role: auth.RoleAdmin})
	svc := &Service{repo: store}

	if err := svc.Delete(context.Background(), "a1"); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected no delete to reach the store, got %v", store.deleted)
	}
}

func TestDeleteAdminWithAnotherRemaining(t *testing.T) {
	store := newFakeStore(
		User{ID: "a1", Email: "one@school.edu", Role: auth.RoleAdmin},
		User{ID: "a2", Email: "two@school.edu", Role: auth.RoleAdmin},
	)
	svc := &Service{repo: store}

	if err := svc.Delete(context.Background(), "a1"); err != nil {
		t.Fatalf("expected delete to succeed with another admin remaining, got %v", err)
	}
	// The sole survivor is now protected.
	if err := svc.Delete(context.Background(), "a2"); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin for the remaining admin, got %v", err)
	}
}

func TestDeleteNonAdminSkipsAdminGuard(t *testing.T) {
	store := newFakeStore(
		User{ID: "a1", Email: "admin@school.edu", Role: auth.RoleAdmin},
		User{ID: "s1", Email: "student@school.edu", Role: auth.RoleStudent},
	)
	svc := &Service{repo: store}

	if err := svc.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("expected student delete to succeed, got %v", err)
	}
}

func TestEnsureAdminBootstrapsWhenNoneExists(t *testing.T) {
	store := newFakeStore()
	svc := &Service{repo: store}

	if err := svc.EnsureAdmin(context.Background(), "Admin", "Admin@School.EDU", "secret123"); err != nil {
		t.Fatalf("bootstrap error: %v", err)
	}
	u, err := store.GetByEmail(context.Background(), "admin@school.edu")
	if err != nil {
		t.Fatalf("expected bootstrap admin with normalized email, got %v", err)
	}
	if u.Role != auth.RoleAdmin {
		t.Fatalf("expected admin role, got %s", u.Role)
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Fatal("expected a stored password hash, not the plaintext")
	}
}

func TestEnsureAdminNoOpWhenAdminExists(t *testing.T) {
	store := newFakeStore(User{ID: "a1", Email: "admin@school.edu", Role: auth.RoleAdmin})
	svc := &Service{repo: store}

	if err := svc.EnsureAdmin(context.Background(), "Admin", "other@school.edu", "secret123"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(store.byID) != 1 {
		t.Fatalf("expected no new account, got %d users", len(store.byID))
	}
}

func TestAuthenticateHidesWhichPartFailed(t *testing.T) {
	hash, err := auth.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	store := newFakeStore(User{
		ID:           "s1",
		Email:        "student@school.edu",
		PasswordHash: hash,
		Role:         auth.RoleStudent,
	})
	svc := &Service{repo: store}
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "student@school.edu", "correct-password"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "student@school.edu", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@school.edu", "correct-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
