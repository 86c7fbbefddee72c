package store

import (
	"context"
	"database/sql"
	"fmt"
)

// One statement per entry: the pgx stdlib driver runs the extended protocol,
// which rejects multi-statement Exec calls.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL CHECK (role IN ('student', 'teacher', 'admin')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS class_sessions (
    id UUID PRIMARY KEY,
    teacher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    subject VARCHAR(255) NOT NULL,
    session_date DATE NOT NULL,
    code VARCHAR(255) UNIQUE NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    class_id UUID NOT NULL REFERENCES class_sessions(id) ON DELETE CASCADE,
    marked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (student_id, class_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_class_sessions_teacher ON class_sessions (teacher_id)`,
	`CREATE INDEX IF NOT EXISTS idx_class_sessions_date ON class_sessions (session_date)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_class ON attendance_records (class_id)`,
}

// InitSchema creates the tables and indexes if they do not exist yet.
// The unique index on attendance_records (student_id, class_id) is the
// authoritative at-most-once guard for marking attendance.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
