package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_sessions_created_total",
		Help: "Class sessions created via generate-qr.",
	})
	attendanceMarked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_attendance_marked_total",
		Help: "Attendance records created, by source.",
	}, []string{"source"}) // scan | manual
	scansRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_scans_rejected_total",
		Help: "Rejected mark-attendance attempts, by reason.",
	}, []string{"reason"}) // invalid_code | already_marked | other
)
