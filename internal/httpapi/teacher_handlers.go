package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/classes"
)

type generateQRRequest struct {
	Subject string `json:"subject" binding:"required,min=1"`
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
}

func (s *Server) generateQR(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	var req generateQRRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := s.registry.CreateSession(c.Request.Context(), ident.UserID, req.Subject, req.Date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	qrImage, err := classes.QRDataURL(session.Code)
	if err != nil {
		s.respondError(c, err)
		return
	}
	sessionsCreated.Inc()
	respond(c, http.StatusCreated, "QR code generated", gin.H{
		"class_id":    session.ID,
		"qr_code":     qrImage,
		"qr_string":   session.Code,
		"expiry_time": session.ExpiresAt,
		"subject":     session.Subject,
		"date":        session.Date,
	})
}

func (s *Server) teacherClasses(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	sessions, err := s.registry.ListForTeacher(c.Request.Context(), ident.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"classes": sessions})
}

func (s *Server) classAttendance(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	result, err := s.ledger.SessionAttendance(c.Request.Context(), ident.UserID, c.Param("classId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", result)
}

type addStudentRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) addStudent(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	var req addStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := s.ledger.AddManually(c.Request.Context(), ident.UserID, c.Param("classId"), req.Email)
	if err != nil {
		s.respondError(c, err)
		return
	}
	attendanceMarked.WithLabelValues("manual").Inc()
	respond(c, http.StatusCreated, "attendance added", result)
}

func (s *Server) realtimeAttendance(c *gin.Context) {
	ident, _ := auth.IdentityFrom(c)
	active, err := s.registry.ListActiveForTeacher(c.Request.Context(), ident.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var current []attendance.SessionEntry
	if len(active) > 0 {
		current, err = s.ledger.RosterForSession(c.Request.Context(), active[0].ID)
		if err != nil {
			s.respondError(c, err)
			return
		}
	}
	respond(c, http.StatusOK, "", gin.H{
		"active_classes":       active,
		"current_attendance":   current,
		"total_active_classes": len(active),
	})
}
