package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/users"
)

func (s *Server) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"users": list, "total": len(list)})
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=student teacher admin"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "role must be student, teacher, or admin")
		return
	}
	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "user created", gin.H{"user": user})
}

type updateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role" binding:"omitempty,oneof=student teacher admin"`
}

func (s *Server) updateUser(c *gin.Context) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := users.Patch{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role, err := auth.ParseRole(*req.Role)
		if err != nil {
			respondFail(c, http.StatusBadRequest, "role must be student, teacher, or admin")
			return
		}
		patch.Role = &role
	}
	if patch.Empty() {
		respondFail(c, http.StatusBadRequest, "no fields to update")
		return
	}
	user, err := s.users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "user updated", gin.H{"user": user})
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "user deleted", nil)
}

func (s *Server) adminReports(c *gin.Context) {
	report, err := s.reports.AdminReport(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", report)
}

func (s *Server) dashboardStats(c *gin.Context) {
	stats, err := s.reports.DashboardStats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}
