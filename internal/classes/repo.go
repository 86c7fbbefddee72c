package classes

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists class sessions in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanSession(row interface{ Scan(...any) error }) (Session, error) {
	var s Session
	var date time.Time
	if err := row.Scan(&s.ID, &s.TeacherID, &s.Subject, &date, &s.Code, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return Session{}, err
	}
	s.Date = date.Format(DateLayout)
	return s, nil
}

const sessionColumns = `id, teacher_id, subject, session_date, code, expires_at, created_at`

// Insert writes a new session. A duplicate code surfaces as errCodeTaken so
// the registry can regenerate and retry.
func (r *Repository) Insert(ctx context.Context, s Session) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO class_sessions (id, teacher_id, subject, session_date, code, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, s.ID, s.TeacherID, s.Subject, s.Date, s.Code, s.ExpiresAt)
	if err := row.Scan(&s.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Session{}, errCodeTaken
		}
		return Session{}, err
	}
	return s, nil
}

// FindByCode returns the session holding a code, expired or not. Callers
// decide what expiry means for them.
func (r *Repository) FindByCode(ctx context.Context, code string) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM class_sessions WHERE code = $1
	`, code)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return s, err
}

// GetByID returns a single session.
func (r *Repository) GetByID(ctx context.Context, id string) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM class_sessions WHERE id = $1
	`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return s, err
}

// ListByTeacher returns a teacher's sessions with attendance counts, most
// recent first.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID string) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.teacher_id, c.subject, c.session_date, c.code, c.expires_at, c.created_at,
		       COUNT(a.id) AS attendance_count
		FROM class_sessions c
		LEFT JOIN attendance_records a ON a.class_id = c.id
		WHERE c.teacher_id = $1
		GROUP BY c.id
		ORDER BY c.session_date DESC, c.created_at DESC
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSummaries(rows)
}

// ListActiveByTeacher returns the teacher's sessions whose codes are still
// scannable, newest first, with present counts.
func (r *Repository) ListActiveByTeacher(ctx context.Context, teacherID string) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.teacher_id, c.subject, c.session_date, c.code, c.expires_at, c.created_at,
		       COUNT(a.id) AS attendance_count
		FROM class_sessions c
		LEFT JOIN attendance_records a ON a.class_id = c.id
		WHERE c.teacher_id = $1 AND c.expires_at > NOW()
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSummaries(rows)
}

func collectSummaries(rows *sql.Rows) ([]Summary, error) {
	var res []Summary
	for rows.Next() {
		var sum Summary
		var date time.Time
		if err := rows.Scan(&sum.ID, &sum.TeacherID, &sum.Subject, &date, &sum.Code,
			&sum.ExpiresAt, &sum.CreatedAt, &sum.AttendanceCount); err != nil {
			return nil, err
		}
		sum.Date = date.Format(DateLayout)
		res = append(res, sum)
	}
	return res, rows.Err()
}
