package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"classtrack/internal/classes"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new record. The unique index on (student_id, class_id) is
// the authoritative at-most-once guard: under two concurrent identical
// requests exactly one insert survives and the other surfaces ErrAlreadyMarked.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records (id, student_id, class_id, marked_at)
		VALUES ($1, $2, $3, $4)
		RETURNING marked_at
	`, rec.ID, rec.StudentID, rec.ClassID, rec.MarkedAt)
	if err := row.Scan(&rec.MarkedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrAlreadyMarked
		}
		return Record{}, err
	}
	return rec, nil
}

// ListBySession returns a session's roster joined with student identity,
// ascending by marking time.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]SessionEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, u.id, u.name, u.email, a.marked_at
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE a.class_id = $1
		ORDER BY a.marked_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []SessionEntry
	for rows.Next() {
		var e SessionEntry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.StudentName, &e.StudentEmail, &e.MarkedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// ListByStudent returns a student's history joined with session details,
// descending by session date then marking time.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]StudentEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, c.id, c.subject, c.session_date, t.name, a.marked_at
		FROM attendance_records a
		JOIN class_sessions c ON c.id = a.class_id
		JOIN users t ON t.id = c.teacher_id
		WHERE a.student_id = $1
		ORDER BY c.session_date DESC, a.marked_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StudentEntry
	for rows.Next() {
		var e StudentEntry
		var date time.Time
		if err := rows.Scan(&e.ID, &e.ClassID, &e.Subject, &date, &e.TeacherName, &e.MarkedAt); err != nil {
			return nil, err
		}
		e.Date = date.Format(classes.DateLayout)
		res = append(res, e)
	}
	return res, rows.Err()
}

// RecentForStudent returns the last week's sessions annotated with the
// student's relationship to each: attended, still active, or expired.
func (r *Repository) RecentForStudent(ctx context.Context, studentID string) ([]RecentClass, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.subject, c.session_date, t.name, c.expires_at,
		       CASE
		           WHEN a.id IS NOT NULL THEN 'attended'
		           WHEN c.expires_at > NOW() THEN 'active'
		           ELSE 'expired'
		       END AS status
		FROM class_sessions c
		JOIN users t ON t.id = c.teacher_id
		LEFT JOIN attendance_records a ON a.class_id = c.id AND a.student_id = $1
		WHERE c.session_date >= CURRENT_DATE - INTERVAL '7 days'
		ORDER BY c.session_date DESC, c.created_at DESC
		LIMIT 10
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []RecentClass
	for rows.Next() {
		var rc RecentClass
		var date time.Time
		if err := rows.Scan(&rc.ID, &rc.Subject, &date, &rc.TeacherName, &rc.ExpiresAt, &rc.Status); err != nil {
			return nil, err
		}
		rc.Date = date.Format(classes.DateLayout)
		res = append(res, rc)
	}
	return res, rows.Err()
}
