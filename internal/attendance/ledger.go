package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/classes"
	"classtrack/internal/users"
)

// SessionSource resolves class sessions for the ledger.
type SessionSource interface {
	FindActiveByCode(ctx context.Context, code string) (classes.Session, error)
	GetByID(ctx context.Context, id string) (classes.Session, error)
}

// StudentDirectory resolves student accounts for manual adds.
type StudentDirectory interface {
	StudentByEmail(ctx context.Context, email string) (users.User, error)
}

// RecordStore persists and lists attendance records.
type RecordStore interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	ListBySession(ctx context.Context, sessionID string) ([]SessionEntry, error)
	ListByStudent(ctx context.Context, studentID string) ([]StudentEntry, error)
	RecentForStudent(ctx context.Context, studentID string) ([]RecentClass, error)
}

// Ledger records attendance, one entry per (student, session) pair.
type Ledger struct {
	records  RecordStore
	sessions SessionSource
	students StudentDirectory
	now      func() time.Time
}

// NewLedger creates a ledger.
func NewLedger(records RecordStore, sessions SessionSource, students StudentDirectory) *Ledger {
	return &Ledger{
		records:  records,
		sessions: sessions,
		students: students,
		now:      time.Now,
	}
}

// Mark records attendance from a scanned or typed code. The code must still
// be active; the store's uniqueness constraint resolves duplicate races.
func (l *Ledger) Mark(ctx context.Context, studentID, code string) (MarkResult, error) {
	session, err := l.sessions.FindActiveByCode(ctx, code)
	if err != nil {
		return MarkResult{}, err
	}
	rec, err := l.records.Insert(ctx, Record{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ClassID:   session.ID,
		MarkedAt:  l.now().UTC(),
	})
	if err != nil {
		return MarkResult{}, err
	}
	return MarkResult{Record: rec, Session: session}, nil
}

// AddManually records attendance on a teacher's say-so. It is the recovery
// path for missed scans, so there is no expiry check, but the at-most-once
// rule still applies.
func (l *Ledger) AddManually(ctx context.Context, teacherID, sessionID, studentEmail string) (MarkResult, error) {
	session, err := l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return MarkResult{}, err
	}
	if session.TeacherID != teacherID {
		return MarkResult{}, ErrNotOwner
	}
	student, err := l.students.StudentByEmail(ctx, studentEmail)
	if err != nil {
		// Only a missing account is a business rejection; store failures
		// propagate as-is.
		if errors.Is(err, users.ErrNotFound) {
			return MarkResult{}, ErrUnknownStudent
		}
		return MarkResult{}, err
	}
	rec, err := l.records.Insert(ctx, Record{
		ID:        uuid.NewString(),
		StudentID: student.ID,
		ClassID:   session.ID,
		MarkedAt:  l.now().UTC(),
	})
	if err != nil {
		return MarkResult{}, err
	}
	return MarkResult{Record: rec, Session: session}, nil
}

// SessionAttendance returns the roster for a session the teacher owns.
func (l *Ledger) SessionAttendance(ctx context.Context, teacherID, sessionID string) (SessionAttendance, error) {
	session, err := l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return SessionAttendance{}, err
	}
	if session.TeacherID != teacherID {
		return SessionAttendance{}, ErrNotOwner
	}
	entries, err := l.records.ListBySession(ctx, sessionID)
	if err != nil {
		return SessionAttendance{}, err
	}
	return SessionAttendance{
		Session:      session,
		Entries:      entries,
		TotalPresent: len(entries),
	}, nil
}

// RosterForSession lists a session's entries without an owner check, for
// composing views that already verified access.
func (l *Ledger) RosterForSession(ctx context.Context, sessionID string) ([]SessionEntry, error) {
	return l.records.ListBySession(ctx, sessionID)
}

// ListForStudent returns the student's attendance history.
func (l *Ledger) ListForStudent(ctx context.Context, studentID string) ([]StudentEntry, error) {
	return l.records.ListByStudent(ctx, studentID)
}

// RecentForStudent returns the last week's sessions with per-student status.
func (l *Ledger) RecentForStudent(ctx context.Context, studentID string) ([]RecentClass, error) {
	return l.records.RecentForStudent(ctx, studentID)
}
