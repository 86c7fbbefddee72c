package classes

import (
	"errors"
	"time"
)

// ErrCodeInvalid is returned for both unknown and expired codes. The two
// cases are deliberately indistinguishable so callers cannot probe which
// codes ever existed.
var ErrCodeInvalid = errors.New("invalid or expired code")

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = errors.New("class session not found")

// ErrInvalidInput flags a malformed session request, such as a blank subject
// or a date that is not a calendar date.
var ErrInvalidInput = errors.New("invalid session input")

// errCodeTaken signals a generated code collided with an existing row.
var errCodeTaken = errors.New("session code already taken")

// DateLayout is the calendar-date wire format for sessions.
const DateLayout = "2006-01-02"

// Session is one scheduled occurrence of a subject with a one-time code.
// Expiry is set at creation and never extended; active vs expired is always
// derived from ExpiresAt at read time, never stored as a status field.
type Session struct {
	ID        string    `json:"id"`
	TeacherID string    `json:"teacher_id"`
	Subject   string    `json:"subject"`
	Date      string    `json:"date"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the session code can still be scanned.
func (s Session) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Summary is a session with its derived attendance count, for teacher
// listings and dashboards.
type Summary struct {
	Session
	AttendanceCount int `json:"attendance_count"`
}
