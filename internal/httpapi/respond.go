package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/classes"
	"classtrack/internal/users"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []fieldError `json:"errors,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

// bindJSON binds and validates the request body, writing a field-level 400
// on failure. Returns false when the handler should stop.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: fields})
		return false
	}
	c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "datetime":
		return "must match format " + fe.Param()
	default:
		return "is invalid"
	}
}

// respondError translates business errors into the envelope taxonomy. Raw
// store errors never reach the client; outside debug mode the 500 message
// is generic.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired):
		respondFail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, attendance.ErrNotOwner):
		respondFail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, users.ErrNotFound), errors.Is(err, classes.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, users.ErrDuplicateEmail), errors.Is(err, attendance.ErrAlreadyMarked):
		respondFail(c, http.StatusConflict, err.Error())
	case errors.Is(err, classes.ErrCodeInvalid),
		errors.Is(err, classes.ErrInvalidInput),
		errors.Is(err, users.ErrLastAdmin),
		errors.Is(err, attendance.ErrUnknownStudent):
		respondFail(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg := "internal server error"
		if s.debugErrors {
			msg = err.Error()
		}
		respondFail(c, http.StatusInternalServerError, msg)
	}
}
