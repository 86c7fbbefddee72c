package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=student teacher admin"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
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
	token, expiresAt, err := auth.Issue(user.ID, user.Role, s.issuer, s.signingKey, s.accessTTL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "account created", gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	token, expiresAt, err := auth.Issue(user.ID, user.Role, s.issuer, s.signingKey, s.accessTTL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "login successful", gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

func (s *Server) profile(c *gin.Context) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	user, err := s.users.GetByID(c.Request.Context(), ident.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"user": user})
}
