package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"classtrack/internal/classes"
	"classtrack/internal/users"
)

// fakeSessions resolves codes against a fixed clock, mirroring the registry's
// now < expiry rule.
type fakeSessions struct {
	sessions map[string]classes.Session // by id
	now      func() time.Time
}

func (f *fakeSessions) FindActiveByCode(_ context.Context, code string) (classes.Session, error) {
	for _, s := range f.sessions {
		if s.Code == code && s.Active(f.now()) {
			return s, nil
		}
	}
	return classes.Session{}, classes.ErrCodeInvalid
}

func (f *fakeSessions) GetByID(_ context.Context, id string) (classes.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return classes.Session{}, classes.ErrNotFound
	}
	return s, nil
}

type fakeStudents struct {
	byEmail map[string]users.User
	err     error
}

func (f *fakeStudents) StudentByEmail(_ context.Context, email string) (users.User, error) {
	if f.err != nil {
		return users.User{}, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

// fakeRecords enforces the (student, class) uniqueness rule the way the DB
// unique index does.
type fakeRecords struct {
	records []Record
}

func (f *fakeRecords) Insert(_ context.Context, rec Record) (Record, error) {
	for _, existing := range f.records {
		if existing.StudentID == rec.StudentID && existing.ClassID == rec.ClassID {
			return Record{}, ErrAlreadyMarked
		}
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeRecords) ListBySession(_ context.Context, sessionID string) ([]SessionEntry, error) {
	var res []SessionEntry
	for _, rec := range f.records {
		if rec.ClassID == sessionID {
			res = append(res, SessionEntry{ID: rec.ID, StudentID: rec.StudentID, MarkedAt: rec.MarkedAt})
		}
	}
	return res, nil
}

func (f *fakeRecords) ListByStudent(context.Context, string) ([]StudentEntry, error) {
	return nil, nil
}

func (f *fakeRecords) RecentForStudent(context.Context, string) ([]RecentClass, error) {
	return nil, nil
}

func TestLedgerScanLifecycle(t *testing.T) {
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	clock := created

	session := classes.Session{
		ID:        "c1",
		TeacherID: "teacher-1",
		Subject:   "Physics",
		Date:      "2024-01-10",
		Code:      "physics-teacher1-abc123",
		ExpiresAt: created.Add(30 * time.Second),
	}
	sessions := &fakeSessions{
		sessions: map[string]classes.Session{"c1": session},
		now:      func() time.Time { return clock },
	}
	students := &fakeStudents{byEmail: map[string]users.User{
		"b@school.edu": {ID: "student-b", Email: "b@school.edu"},
	}}
	records := &fakeRecords{}
	ledger := NewLedger(records, sessions, students)
	ledger.now = func() time.Time { return clock }

	ctx := context.Background()

	// Student A marks at +5s: success.
	clock = created.Add(5 * time.Second)
	res, err := ledger.Mark(ctx, "student-a", session.Code)
	if err != nil {
		t.Fatalf("expected first mark to succeed, got %v", err)
	}
	if res.Record.StudentID != "student-a" || res.Session.ID != "c1" {
		t.Fatalf("unexpected mark result: %+v", res)
	}

	// Student A marks again at +6s: at most one record per pair.
	clock = created.Add(6 * time.Second)
	if _, err := ledger.Mark(ctx, "student-a", session.Code); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("expected ErrAlreadyMarked, got %v", err)
	}

	// Student B scans at +31s: one instant past expiry is too late.
	clock = created.Add(31 * time.Second)
	if _, err := ledger.Mark(ctx, "student-b", session.Code); !errors.Is(err, classes.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid after expiry, got %v", err)
	}

	// Teacher manually adds student B at +40s: the recovery path ignores expiry.
	clock = created.Add(40 * time.Second)
	if _, err := ledger.AddManually(ctx, "teacher-1", "c1", "b@school.edu"); err != nil {
		t.Fatalf("expected manual add after expiry to succeed, got %v", err)
	}

	roster, err := ledger.RosterForSession(ctx, "c1")
	if err != nil {
		t.Fatalf("roster error: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected totalPresent 2, got %d", len(roster))
	}
}

func TestAddManuallyAuthorization(t *testing.T) {
	session := classes.Session{
		ID:        "c1",
		TeacherID: "teacher-1",
		Code:      "code",
		ExpiresAt: time.Now().Add(30 * time.Second),
	}
	sessions := &fakeSessions{
		sessions: map[string]classes.Session{"c1": session},
		now:      time.Now,
	}
	students := &fakeStudents{byEmail: map[string]users.User{
		"s@school.edu": {ID: "student-1"},
	}}
	ledger := NewLedger(&fakeRecords{}, sessions, students)
	ctx := context.Background()

	if _, err := ledger.AddManually(ctx, "teacher-2", "c1", "s@school.edu"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for another teacher, got %v", err)
	}
	if _, err := ledger.AddManually(ctx, "teacher-1", "missing", "s@school.edu"); !errors.Is(err, classes.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing session, got %v", err)
	}
	if _, err := ledger.AddManually(ctx, "teacher-1", "c1", "nobody@school.edu"); !errors.Is(err, ErrUnknownStudent) {
		t.Fatalf("expected ErrUnknownStudent, got %v", err)
	}

	// Manual add before expiry is also allowed.
	if _, err := ledger.AddManually(ctx, "teacher-1", "c1", "s@school.edu"); err != nil {
		t.Fatalf("expected manual add before expiry to succeed, got %v", err)
	}
	// But it is not exempt from at-most-once.
	if _, err := ledger.AddManually(ctx, "teacher-1", "c1", "s@school.edu"); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("expected ErrAlreadyMarked on repeat manual add, got %v", err)
	}
}

func TestAddManuallyStudentLookupFailurePropagates(t *testing.T) {
	session := classes.Session{
		ID:        "c1",
		TeacherID: "teacher-1",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	sessions := &fakeSessions{
		sessions: map[string]classes.Session{"c1": session},
		now:      time.Now,
	}
	storeErr := errors.New("connection reset")
	ledger := NewLedger(&fakeRecords{}, sessions, &fakeStudents{err: storeErr})

	_, err := ledger.AddManually(context.Background(), "teacher-1", "c1", "s@school.edu")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store failure to propagate, got %v", err)
	}
	if errors.Is(err, ErrUnknownStudent) {
		t.Fatal("store failure must not be reported as an unknown student")
	}
}

func TestSessionAttendanceOwnerCheck(t *testing.T) {
	session := classes.Session{ID: "c1", TeacherID: "teacher-1", ExpiresAt: time.Now()}
	sessions := &fakeSessions{
		sessions: map[string]classes.Session{"c1": session},
		now:      time.Now,
	}
	ledger := NewLedger(&fakeRecords{}, sessions, &fakeStudents{})
	ctx := context.Background()

	if _, err := ledger.SessionAttendance(ctx, "teacher-2", "c1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	result, err := ledger.SessionAttendance(ctx, "teacher-1", "c1")
	if err != nil {
		t.Fatalf("owner view error: %v", err)
	}
	if result.TotalPresent != 0 {
		t.Fatalf("expected empty roster, got %d", result.TotalPresent)
	}
}
