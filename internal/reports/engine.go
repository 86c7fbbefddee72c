package reports

import (
	"context"
	"math"
)

// trendWindowDays is the trailing window for the daily attendance trend.
const trendWindowDays = 30

// Engine derives aggregate statistics from the registry and ledger tables.
// Read-only; every percentage goes through the same zero-guarded helper.
type Engine struct {
	repo *Repository
}

// NewEngine creates an engine.
func NewEngine(repo *Repository) *Engine {
	return &Engine{repo: repo}
}

// percent computes part/whole as a percentage rounded to 2 decimals.
// A zero whole yields 0, never NaN or a panic.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// StudentReport is one student's line in the admin report.
type StudentReport struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Total      int     `json:"total_classes"`
	Attended   int     `json:"attended_classes"`
	Percentage float64 `json:"attendance_percentage"`
}

// SubjectReport aggregates one subject across all students.
type SubjectReport struct {
	Subject        string  `json:"subject"`
	Total          int     `json:"total_classes"`
	UniqueStudents int     `json:"unique_students_attended"`
	Records        int     `json:"total_attendance_records"`
	Percentage     float64 `json:"attendance_percentage"`
}

// DailyTrend is one calendar day's attendance ratio.
type DailyTrend struct {
	Date       string  `json:"date"`
	Sessions   int     `json:"classes_held"`
	Records    int     `json:"attendance_records"`
	Percentage float64 `json:"daily_attendance_percentage"`
}

// Overall is the system-wide summary line.
type Overall struct {
	Counts
	AveragePercentage float64 `json:"average_attendance_percentage"`
}

// Report is the full admin report.
type Report struct {
	Overall     Overall         `json:"overall"`
	Students    []StudentReport `json:"students"`
	Subjects    []SubjectReport `json:"subjects"`
	DailyTrends []DailyTrend    `json:"daily_trends"`
}

// AdminReport builds the aggregate attendance report. Per-student
// percentages are attended distinct sessions over all sessions ever held,
// subjects conflated (matching the reference dashboard); per-subject lines
// carry the subject-scoped view.
func (e *Engine) AdminReport(ctx context.Context) (Report, error) {
	counts, err := e.repo.GlobalCounts(ctx)
	if err != nil {
		return Report{}, err
	}

	studentRows, err := e.repo.StudentAttendance(ctx)
	if err != nil {
		return Report{}, err
	}
	students := make([]StudentReport, 0, len(studentRows))
	var pctSum float64
	for _, row := range studentRows {
		pct := percent(row.Attended, counts.Sessions)
		pctSum += pct
		students = append(students, StudentReport{
			ID:         row.ID,
			Name:       row.Name,
			Email:      row.Email,
			Total:      counts.Sessions,
			Attended:   row.Attended,
			Percentage: pct,
		})
	}
	var average float64
	if len(students) > 0 {
		average = round2(pctSum / float64(len(students)))
	}

	subjectRows, err := e.repo.SubjectCounts(ctx)
	if err != nil {
		return Report{}, err
	}
	subjects := make([]SubjectReport, 0, len(subjectRows))
	for _, row := range subjectRows {
		subjects = append(subjects, SubjectReport{
			Subject:        row.Subject,
			Total:          row.Sessions,
			UniqueStudents: row.UniqueStudents,
			Records:        row.Records,
			Percentage:     percent(row.Records, row.Sessions*counts.Students),
		})
	}

	dailyRows, err := e.repo.DailyCounts(ctx, trendWindowDays)
	if err != nil {
		return Report{}, err
	}
	trends := make([]DailyTrend, 0, len(dailyRows))
	for _, row := range dailyRows {
		trends = append(trends, DailyTrend{
			Date:       row.Date,
			Sessions:   row.Sessions,
			Records:    row.Records,
			Percentage: percent(row.Records, row.Sessions*counts.Students),
		})
	}

	return Report{
		Overall:     Overall{Counts: counts, AveragePercentage: average},
		Students:    students,
		Subjects:    subjects,
		DailyTrends: trends,
	}, nil
}

// Dashboard is the admin landing view.
type Dashboard struct {
	Counts         Counts          `json:"counts"`
	RecentSessions []RecentSession `json:"recent_classes"`
	RecentRecords  []RecentRecord  `json:"recent_attendance"`
}

// DashboardStats returns counts plus recent activity.
func (e *Engine) DashboardStats(ctx context.Context) (Dashboard, error) {
	counts, err := e.repo.GlobalCounts(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	sessions, err := e.repo.RecentSessions(ctx, 5)
	if err != nil {
		return Dashboard{}, err
	}
	records, err := e.repo.RecentRecords(ctx, 10)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Counts: counts, RecentSessions: sessions, RecentRecords: records}, nil
}

// StudentSubjectStats is a student's standing in one subject.
type StudentSubjectStats struct {
	Subject    string  `json:"subject"`
	Total      int     `json:"total_classes"`
	Attended   int     `json:"attended_classes"`
	Percentage float64 `json:"attendance_percentage"`
}

// StudentStats is a student's own summary.
type StudentStats struct {
	Total      int                   `json:"total_classes"`
	Attended   int                   `json:"attended_classes"`
	Percentage float64               `json:"attendance_percentage"`
	Subjects   []StudentSubjectStats `json:"subject_statistics"`
}

// StudentStatistics computes one student's overall and per-subject numbers.
func (e *Engine) StudentStatistics(ctx context.Context, studentID string) (StudentStats, error) {
	total, attended, err := e.repo.StudentCounts(ctx, studentID)
	if err != nil {
		return StudentStats{}, err
	}
	subjectRows, err := e.repo.StudentSubjectCounts(ctx, studentID)
	if err != nil {
		return StudentStats{}, err
	}
	subjects := make([]StudentSubjectStats, 0, len(subjectRows))
	for _, row := range subjectRows {
		subjects = append(subjects, StudentSubjectStats{
			Subject:    row.Subject,
			Total:      row.Sessions,
			Attended:   row.Attended,
			Percentage: percent(row.Attended, row.Sessions),
		})
	}
	return StudentStats{
		Total:      total,
		Attended:   attended,
		Percentage: percent(attended, total),
		Subjects:   subjects,
	}, nil
}
