package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/classes"
)

type markAttendanceRequest struct {
	Code string `json:"code" binding:"required,min=1"`
}

func (s *Server) markAttendance(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	var req markAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := s.ledger.Mark(c.Request.Context(), ident.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, classes.ErrCodeInvalid):
			scansRejected.WithLabelValues("invalid_code").Inc()
		case errors.Is(err, attendance.ErrAlreadyMarked):
			scansRejected.WithLabelValues("already_marked").Inc()
		default:
			scansRejected.WithLabelValues("other").Inc()
		}
		s.respondError(c, err)
		return
	}
	attendanceMarked.WithLabelValues("scan").Inc()
	respond(c, http.StatusCreated, "attendance marked", result)
}

func (s *Server) studentAttendance(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	ctx := c.Request.Context()
	history, err := s.ledger.ListForStudent(ctx, ident.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	stats, err := s.reports.StudentStatistics(ctx, ident.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"attendance":         history,
		"statistics":         stats,
		"subject_statistics": stats.Subjects,
	})
}

func (s *Server) recentClasses(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	recent, err := s.ledger.RecentForStudent(c.Request.Context(), ident.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"classes": recent})
}
