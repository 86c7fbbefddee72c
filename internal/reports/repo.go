package reports

import (
	"context"
	"database/sql"
	"time"

	"classtrack/internal/classes"
)

// Repository runs the aggregate count queries reports are built from.
// It only ever counts; ratios are computed by the engine so the
// divide-by-zero policy lives in one tested place.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Counts holds the system-wide totals.
type Counts struct {
	Students int `json:"total_students"`
	Teachers int `json:"total_teachers"`
	Sessions int `json:"total_classes"`
	Records  int `json:"total_attendance_records"`
}

// GlobalCounts returns the totals for dashboards and overall statistics.
func (r *Repository) GlobalCounts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM users WHERE role = 'teacher'),
			(SELECT COUNT(*) FROM class_sessions),
			(SELECT COUNT(*) FROM attendance_records)
	`).Scan(&c.Students, &c.Teachers, &c.Sessions, &c.Records)
	return c, err
}

// StudentRow is one student's attended-session count.
type StudentRow struct {
	ID       string
	Name     string
	Email    string
	Attended int
}

// StudentAttendance returns every student with their distinct attended
// session count, highest first.
func (r *Repository) StudentAttendance(ctx context.Context) ([]StudentRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, COUNT(DISTINCT a.class_id) AS attended
		FROM users u
		LEFT JOIN attendance_records a ON a.student_id = u.id
		WHERE u.role = 'student'
		GROUP BY u.id, u.name, u.email
		ORDER BY attended DESC, u.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StudentRow
	for rows.Next() {
		var sr StudentRow
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.Email, &sr.Attended); err != nil {
			return nil, err
		}
		res = append(res, sr)
	}
	return res, rows.Err()
}

// SubjectRow holds per-subject counts.
type SubjectRow struct {
	Subject        string
	Sessions       int
	UniqueStudents int
	Records        int
}

// SubjectCounts returns per-subject session and record counts.
func (r *Repository) SubjectCounts(ctx context.Context) ([]SubjectRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.subject,
		       COUNT(DISTINCT c.id) AS sessions,
		       COUNT(DISTINCT a.student_id) AS unique_students,
		       COUNT(a.id) AS records
		FROM class_sessions c
		LEFT JOIN attendance_records a ON a.class_id = c.id
		GROUP BY c.subject
		ORDER BY c.subject
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []SubjectRow
	for rows.Next() {
		var sr SubjectRow
		if err := rows.Scan(&sr.Subject, &sr.Sessions, &sr.UniqueStudents, &sr.Records); err != nil {
			return nil, err
		}
		res = append(res, sr)
	}
	return res, rows.Err()
}

// DailyRow holds one calendar day's counts.
type DailyRow struct {
	Date     string
	Sessions int
	Records  int
}

// DailyCounts returns per-day session and record counts over the trailing
// window, newest day first.
func (r *Repository) DailyCounts(ctx context.Context, days int) ([]DailyRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.session_date,
		       COUNT(DISTINCT c.id) AS sessions,
		       COUNT(a.id) AS records
		FROM class_sessions c
		LEFT JOIN attendance_records a ON a.class_id = c.id
		WHERE c.session_date >= CURRENT_DATE - $1 * INTERVAL '1 day'
		GROUP BY c.session_date
		ORDER BY c.session_date DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []DailyRow
	for rows.Next() {
		var dr DailyRow
		var date time.Time
		if err := rows.Scan(&date, &dr.Sessions, &dr.Records); err != nil {
			return nil, err
		}
		dr.Date = date.Format(classes.DateLayout)
		res = append(res, dr)
	}
	return res, rows.Err()
}

// StudentCounts returns one student's totals: sessions ever held and
// sessions they attended.
func (r *Repository) StudentCounts(ctx context.Context, studentID string) (total, attended int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT c.id),
		       COUNT(DISTINCT a.class_id)
		FROM class_sessions c
		LEFT JOIN attendance_records a ON a.class_id = c.id AND a.student_id = $1
	`, studentID).Scan(&total, &attended)
	return total, attended, err
}

// StudentSubjectRow holds one student's per-subject counts.
type StudentSubjectRow struct {
	Subject  string
	Sessions int
	Attended int
}

// StudentSubjectCounts breaks a student's attendance down by subject.
func (r *Repository) StudentSubjectCounts(ctx context.Context, studentID string) ([]StudentSubjectRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.subject,
		       COUNT(DISTINCT c.id) AS sessions,
		       COUNT(a.id) AS attended
		FROM class_sessions c
		LEFT JOIN attendance_records a ON a.class_id = c.id AND a.student_id = $1
		GROUP BY c.subject
		ORDER BY c.subject
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StudentSubjectRow
	for rows.Next() {
		var sr StudentSubjectRow
		if err := rows.Scan(&sr.Subject, &sr.Sessions, &sr.Attended); err != nil {
			return nil, err
		}
		res = append(res, sr)
	}
	return res, rows.Err()
}

// RecentSession is a recently created session with its teacher and count.
type RecentSession struct {
	ID              string `json:"id"`
	Subject         string `json:"subject"`
	Date            string `json:"date"`
	TeacherName     string `json:"teacher_name"`
	AttendanceCount int    `json:"attendance_count"`
}

// RecentSessions returns the most recently created sessions.
func (r *Repository) RecentSessions(ctx context.Context, limit int) ([]RecentSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.subject, c.session_date, t.name, COUNT(a.id) AS attendance_count
		FROM class_sessions c
		JOIN users t ON t.id = c.teacher_id
		LEFT JOIN attendance_records a ON a.class_id = c.id
		GROUP BY c.id, t.name
		ORDER BY c.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []RecentSession
	for rows.Next() {
		var rs RecentSession
		var date time.Time
		if err := rows.Scan(&rs.ID, &rs.Subject, &date, &rs.TeacherName, &rs.AttendanceCount); err != nil {
			return nil, err
		}
		rs.Date = date.Format(classes.DateLayout)
		res = append(res, rs)
	}
	return res, rows.Err()
}

// RecentRecord is a recently marked attendance entry.
type RecentRecord struct {
	MarkedAt    time.Time `json:"marked_at"`
	StudentName string    `json:"student_name"`
	Subject     string    `json:"subject"`
	TeacherName string    `json:"teacher_name"`
}

// RecentRecords returns the most recently marked attendance entries.
func (r *Repository) RecentRecords(ctx context.Context, limit int) ([]RecentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.marked_at, u.name, c.subject, t.name
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		JOIN class_sessions c ON c.id = a.class_id
		JOIN users t ON t.id = c.teacher_id
		ORDER BY a.marked_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []RecentRecord
	for rows.Next() {
		var rr RecentRecord
		if err := rows.Scan(&rr.MarkedAt, &rr.StudentName, &rr.Subject, &rr.TeacherName); err != nil {
			return nil, err
		}
		res = append(res, rr)
	}
	return res, rows.Err()
}
