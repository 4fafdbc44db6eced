package profile

import (
	"context"
	"errors"
	"testing"

	"skill-compass/internal/domain/profile"
	"skill-compass/internal/repository"
)

type mockRecordStore struct {
	records map[string]repository.UserRecord
	fail    error
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{records: make(map[string]repository.UserRecord)}
}

func (m *mockRecordStore) Get(_ context.Context, userID string) (repository.UserRecord, error) {
	if m.fail != nil {
		return repository.UserRecord{}, m.fail
	}
	record, ok := m.records[userID]
	if !ok {
		return repository.UserRecord{}, repository.ErrRecordNotFound
	}
	return record, nil
}

func (m *mockRecordStore) Upsert(_ context.Context, userID string, updates map[string]any) (repository.UserRecord, error) {
	if m.fail != nil {
		return repository.UserRecord{}, m.fail
	}
	record, ok := m.records[userID]
	if !ok {
		record = repository.UserRecord{UserID: userID, Payload: make(map[string]any)}
	}
	for key, value := range updates {
		record.Payload[key] = value
	}
	m.records[userID] = record
	return record, nil
}

func (m *mockRecordStore) All(context.Context) ([]repository.UserRecord, error) { return nil, nil }
func (m *mockRecordStore) Close() error                                         { return nil }

func validInput() Input {
	return Input{
		Profile: profile.Input{
			Age:                   27,
			EmploymentStatus:      "employed",
			EducationLevel:        "bachelor",
			DigitalLevel:          "medium",
			GoalType:              "career_upgrade",
			WeeklyTimeBudgetHours: 10,
		},
		Goal:       "ارتقای شغلی",
		WeeklyTime: "۳–۵ ساعت",
		Preference: "تولید محتوا",
	}
}

func TestSavePersistsQuestionnaire(t *testing.T) {
	store := newMockRecordStore()
	s := NewService(store)

	normalized, err := s.Save(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if normalized.DigitalLevel != "medium" {
		t.Fatalf("normalized profile mismatch: %+v", normalized)
	}

	record := store.records["u1"]
	if record.Payload["goal"] != "ارتقای شغلی" {
		t.Fatalf("routing answers must be persisted: %+v", record.Payload)
	}
	if record.Payload["current_step"] != "interview" {
		t.Fatalf("step must advance to interview: %+v", record.Payload)
	}
}

func TestSaveRejectsInvalidProfile(t *testing.T) {
	s := NewService(newMockRecordStore())

	in := validInput()
	in.Profile.DigitalLevel = "excellent"
	if _, err := s.Save(context.Background(), "u1", in); !errors.Is(err, profile.ErrInvalidProfile) {
		t.Fatalf("invalid digital level must be rejected, got %v", err)
	}

	in = validInput()
	in.Profile.WeeklyTimeBudgetHours = 1
	if _, err := s.Save(context.Background(), "u1", in); !errors.Is(err, profile.ErrInvalidProfile) {
		t.Fatalf("out-of-range weekly time must be rejected, got %v", err)
	}
}

func TestSaveFailsWhenStoreFails(t *testing.T) {
	store := newMockRecordStore()
	store.fail = errors.New("disk full")
	s := NewService(store)

	if _, err := s.Save(context.Background(), "u1", validInput()); !errors.Is(err, ErrInternal) {
		t.Fatalf("store failure must map to ErrInternal, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	store := newMockRecordStore()
	s := NewService(store)

	if _, err := s.Load(context.Background(), "missing"); !errors.Is(err, repository.ErrRecordNotFound) {
		t.Fatalf("missing record must surface not found, got %v", err)
	}

	if _, err := s.Save(context.Background(), "u1", validInput()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	payload, err := s.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok := payload["profile"]; !ok {
		t.Fatalf("loaded payload must carry the profile: %+v", payload)
	}
}
