package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"skill-compass/internal/repository"
)

type mockRecordStore struct {
	records []repository.UserRecord
	fail    error
}

func (m *mockRecordStore) Get(_ context.Context, userID string) (repository.UserRecord, error) {
	if m.fail != nil {
		return repository.UserRecord{}, m.fail
	}
	for _, record := range m.records {
		if record.UserID == userID {
			return record, nil
		}
	}
	return repository.UserRecord{}, repository.ErrRecordNotFound
}

func (m *mockRecordStore) Upsert(_ context.Context, userID string, _ map[string]any) (repository.UserRecord, error) {
	return repository.UserRecord{UserID: userID}, nil
}

func (m *mockRecordStore) All(context.Context) ([]repository.UserRecord, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	return m.records, nil
}

func (m *mockRecordStore) Close() error { return nil }

func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	return string(hash)
}

func testRecords() []repository.UserRecord {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []repository.UserRecord{
		{
			UserID:    "u1",
			CreatedAt: created,
			Payload: map[string]any{
				"name":         "سارا",
				"current_step": "results",
				"gap":          map[string]any{"track": "content"},
			},
		},
		{
			UserID:    "u2",
			CreatedAt: created,
			Payload: map[string]any{
				"name":                "رضا",
				"current_step":        "profile",
				"interview_completed": true,
				"track":               "automation",
			},
		},
		{
			UserID:  "u3",
			Payload: map[string]any{"name": "مینا", "current_step": "welcome"},
		},
	}
}

func TestAuthenticate(t *testing.T) {
	s := NewService(testHash(t, "secret"), &mockRecordStore{})
	if err := s.Authenticate("secret"); err != nil {
		t.Fatalf("correct password must pass: %v", err)
	}
	if err := s.Authenticate("wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong password must fail, got %v", err)
	}
}

func TestAuthenticateDisabledWithoutHash(t *testing.T) {
	s := NewService("", &mockRecordStore{})
	if err := s.Authenticate("anything"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("empty hash must disable access, got %v", err)
	}
}

func TestOverview(t *testing.T) {
	s := NewService(testHash(t, "secret"), &mockRecordStore{records: testRecords()})

	overview, err := s.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.Stats.TotalUsers != 3 {
		t.Fatalf("total users mismatch: %+v", overview.Stats)
	}
	if overview.Stats.InterviewReached != 2 {
		t.Fatalf("results step and completion flag both count as interview reached: %+v", overview.Stats)
	}
	if overview.Stats.ResultsReached != 1 {
		t.Fatalf("only the results step counts as results reached: %+v", overview.Stats)
	}

	if len(overview.Users) != 3 {
		t.Fatalf("every record gets a row: %+v", overview.Users)
	}
	if overview.Users[0].Track != "content" {
		t.Fatalf("track inside the gap record wins: %+v", overview.Users[0])
	}
	if overview.Users[1].Track != "automation" {
		t.Fatalf("top-level track is the fallback: %+v", overview.Users[1])
	}
	if overview.Users[0].CreatedAt != "2026-03-01T10:00:00Z" {
		t.Fatalf("created_at must be RFC3339 UTC: %q", overview.Users[0].CreatedAt)
	}
	if overview.Users[2].CreatedAt != "" {
		t.Fatalf("zero created_at renders empty: %q", overview.Users[2].CreatedAt)
	}
}

func TestExportCSV(t *testing.T) {
	s := NewService(testHash(t, "secret"), &mockRecordStore{records: testRecords()})

	data, err := s.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("header plus three rows expected, got %d lines", len(lines))
	}
	if lines[0] != "user_id,name,current_step,track,created_at" {
		t.Fatalf("header mismatch: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "u1,سارا,results,content,") {
		t.Fatalf("row mismatch: %q", lines[1])
	}
}

func TestUserDetail(t *testing.T) {
	s := NewService(testHash(t, "secret"), &mockRecordStore{records: testRecords()})

	record, err := s.UserDetail(context.Background(), "u2")
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if record.Payload["name"] != "رضا" {
		t.Fatalf("record mismatch: %+v", record.Payload)
	}

	if _, err := s.UserDetail(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user must map to ErrUserNotFound, got %v", err)
	}
}

func TestStoreFailureSurfacesAsInternal(t *testing.T) {
	s := NewService(testHash(t, "secret"), &mockRecordStore{fail: errors.New("db down")})
	if _, err := s.Overview(context.Background()); !errors.Is(err, ErrInternal) {
		t.Fatalf("store failure must map to ErrInternal, got %v", err)
	}
	if _, err := s.ExportCSV(context.Background()); !errors.Is(err, ErrInternal) {
		t.Fatalf("store failure must map to ErrInternal, got %v", err)
	}
}
