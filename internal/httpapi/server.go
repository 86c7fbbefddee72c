package httpapi

import (
	"context"
	"time"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/classes"
	"classtrack/internal/reports"
	"classtrack/internal/users"
)

// UserService is what the API needs from the credential store.
type UserService interface {
	Register(ctx context.Context, name, email, password string, role auth.Role) (users.User, error)
	Authenticate(ctx context.Context, email, password string) (users.User, error)
	GetByID(ctx context.Context, id string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
	Update(ctx context.Context, id string, p users.Patch) (users.User, error)
	Delete(ctx context.Context, id string) error
}

// SessionRegistry is what the API needs from the class session registry.
type SessionRegistry interface {
	CreateSession(ctx context.Context, teacherID, subject, date string) (classes.Session, error)
	ListForTeacher(ctx context.Context, teacherID string) ([]classes.Summary, error)
	ListActiveForTeacher(ctx context.Context, teacherID string) ([]classes.Summary, error)
}

// AttendanceLedger is what the API needs from the attendance ledger.
type AttendanceLedger interface {
	Mark(ctx context.Context, studentID, code string) (attendance.MarkResult, error)
	AddManually(ctx context.Context, teacherID, sessionID, studentEmail string) (attendance.MarkResult, error)
	SessionAttendance(ctx context.Context, teacherID, sessionID string) (attendance.SessionAttendance, error)
	RosterForSession(ctx context.Context, sessionID string) ([]attendance.SessionEntry, error)
	ListForStudent(ctx context.Context, studentID string) ([]attendance.StudentEntry, error)
	RecentForStudent(ctx context.Context, studentID string) ([]attendance.RecentClass, error)
}

// ReportEngine is what the API needs from the reporting engine.
type ReportEngine interface {
	AdminReport(ctx context.Context) (reports.Report, error)
	DashboardStats(ctx context.Context) (reports.Dashboard, error)
	StudentStatistics(ctx context.Context, studentID string) (reports.StudentStats, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	users       UserService
	registry    SessionRegistry
	ledger      AttendanceLedger
	reports     ReportEngine
	signingKey  string
	issuer      string
	accessTTL   time.Duration
	debugErrors bool
}
