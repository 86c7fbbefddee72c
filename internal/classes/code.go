package classes

import (
	"strings"

	"github.com/google/uuid"
)

// newCode builds a session code from the subject, the owning teacher, and a
// random suffix. The prefix keeps codes debuggable in logs; uniqueness is
// enforced by the store's unique index, not by this construction.
func newCode(subject, teacherID string) string {
	prefix := teacherID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return slugify(subject) + "-" + prefix + "-" + suffix
}

// slugify lowercases and collapses anything outside [a-z0-9] into dashes.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "class"
	}
	if len(out) > 24 {
		out = out[:24]
	}
	return strings.TrimSuffix(out, "-")
}
