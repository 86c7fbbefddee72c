package auth

import "fmt"

// Role is the closed set of account types. Authorization decisions switch on
// it exhaustively; it is never treated as a free-form string.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a role string coming from a request or a token.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
