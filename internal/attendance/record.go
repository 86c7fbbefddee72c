package attendance

import (
	"errors"
	"time"

	"classtrack/internal/classes"
)

var (
	// ErrAlreadyMarked enforces at-most-one record per (student, session).
	ErrAlreadyMarked = errors.New("attendance already marked for this class")
	// ErrNotOwner is returned when a teacher touches a session they do not own.
	ErrNotOwner = errors.New("class session belongs to another teacher")
	// ErrUnknownStudent is returned when a manual add names no student account.
	ErrUnknownStudent = errors.New("no student with that email")
)

// Record is proof that a student was counted present for one class session.
// Records are created once and never updated.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	ClassID   string    `json:"class_id"`
	MarkedAt  time.Time `json:"marked_at"`
}

// MarkResult pairs the new record with the session it was marked against.
type MarkResult struct {
	Record  Record          `json:"record"`
	Session classes.Session `json:"class"`
}

// SessionEntry is a record joined with the student's identity, for the
// teacher's per-session view.
type SessionEntry struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
	MarkedAt     time.Time `json:"marked_at"`
}

// SessionAttendance is the full roster for one session.
type SessionAttendance struct {
	Session      classes.Session `json:"class"`
	Entries      []SessionEntry  `json:"attendance"`
	TotalPresent int             `json:"total_present"`
}

// StudentEntry is a record joined with its session, for the student's own
// history view.
type StudentEntry struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	Subject     string    `json:"subject"`
	Date        string    `json:"date"`
	TeacherName string    `json:"teacher_name"`
	MarkedAt    time.Time `json:"marked_at"`
}

// RecentClass is a session from the trailing week annotated with what it
// means to this student right now.
type RecentClass struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Date        string    `json:"date"`
	TeacherName string    `json:"teacher_name"`
	ExpiresAt   time.Time `json:"expires_at"`
	Status      string    `json:"status"` // attended | active | expired
}
