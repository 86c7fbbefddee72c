package classes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// sessionStore is the persistence surface the registry works against.
type sessionStore interface {
	Insert(ctx context.Context, s Session) (Session, error)
	FindByCode(ctx context.Context, code string) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]Summary, error)
	ListActiveByTeacher(ctx context.Context, teacherID string) ([]Summary, error)
}

// Registry creates sessions and resolves codes.
type Registry struct {
	repo    sessionStore
	cache   *codeCache
	codeTTL time.Duration
	now     func() time.Time
}

// NewRegistry creates a registry. rdb may be nil, in which case code lookups
// always hit the database.
func NewRegistry(repo *Repository, rdb *redis.Client, codeTTL time.Duration) *Registry {
	if codeTTL <= 0 {
		codeTTL = 30 * time.Second
	}
	return &Registry{
		repo:    repo,
		cache:   &codeCache{client: rdb},
		codeTTL: codeTTL,
		now:     time.Now,
	}
}

// CreateSession records a new class session with a freshly generated code and
// an absolute expiry. On the unlikely code collision the insert is retried
// once with a new code; the unique index stays the final arbiter.
func (r *Registry) CreateSession(ctx context.Context, teacherID, subject, date string) (Session, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Session{}, fmt.Errorf("%w: subject required", ErrInvalidInput)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Session{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		s := Session{
			ID:        uuid.NewString(),
			TeacherID: teacherID,
			Subject:   subject,
			Date:      date,
			Code:      newCode(subject, teacherID),
			ExpiresAt: r.now().Add(r.codeTTL).UTC(),
		}
		created, err := r.repo.Insert(ctx, s)
		if err == nil {
			r.cache.put(ctx, created)
			return created, nil
		}
		lastErr = err
		if !errors.Is(err, errCodeTaken) {
			break
		}
	}
	return Session{}, lastErr
}

// FindActiveByCode resolves a code to its session only while now < expiry.
// Unknown and expired codes yield the same ErrCodeInvalid.
func (r *Registry) FindActiveByCode(ctx context.Context, code string) (Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Session{}, ErrCodeInvalid
	}
	now := r.now()
	if s, ok := r.cache.get(ctx, code); ok {
		if s.Active(now) {
			return s, nil
		}
		return Session{}, ErrCodeInvalid
	}
	s, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrCodeInvalid
		}
		return Session{}, err
	}
	if !s.Active(now) {
		return Session{}, ErrCodeInvalid
	}
	return s, nil
}

// GetByID returns a session regardless of expiry, for owner checks and
// manual adds.
func (r *Registry) GetByID(ctx context.Context, id string) (Session, error) {
	return r.repo.GetByID(ctx, id)
}

// ListForTeacher returns the teacher's sessions with attendance counts,
// most recent first.
func (r *Registry) ListForTeacher(ctx context.Context, teacherID string) ([]Summary, error) {
	return r.repo.ListByTeacher(ctx, teacherID)
}

// ListActiveForTeacher returns sessions still accepting scans.
func (r *Registry) ListActiveForTeacher(ctx context.Context, teacherID string) ([]Summary, error) {
	return r.repo.ListActiveByTeacher(ctx, teacherID)
}
