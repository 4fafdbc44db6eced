package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"skill-compass/internal/repository"
)

// Store keeps all user records in a single JSON file keyed by user id. It is
// the zero-setup default; deployments that outgrow it switch to the Postgres
// store without touching callers.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Get(_ context.Context, userID string) (repository.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	record, ok := users[userID]
	if !ok {
		return repository.UserRecord{}, repository.ErrRecordNotFound
	}
	return record, nil
}

func (s *Store) Upsert(_ context.Context, userID string, updates map[string]any) (repository.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	record, ok := users[userID]
	if !ok {
		record = repository.UserRecord{
			UserID:    userID,
			CreatedAt: s.now().UTC(),
			Payload:   make(map[string]any),
		}
	}
	if record.Payload == nil {
		record.Payload = make(map[string]any)
	}
	for key, value := range updates {
		record.Payload[key] = value
	}
	record.UpdatedAt = s.now().UTC()
	users[userID] = record

	if err := s.save(users); err != nil {
		return repository.UserRecord{}, err
	}
	return record, nil
}

func (s *Store) All(_ context.Context) ([]repository.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	out := make([]repository.UserRecord, 0, len(users))
	for _, record := range users {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Store) Close() error { return nil }

// load tolerates a missing, empty or corrupt file: records are an
// append-mostly audit trail, and refusing to start over a bad file would
// lose more than it protects.
func (s *Store) load() map[string]repository.UserRecord {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return make(map[string]repository.UserRecord)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return make(map[string]repository.UserRecord)
	}
	var users map[string]repository.UserRecord
	if err := json.Unmarshal(raw, &users); err != nil || users == nil {
		return make(map[string]repository.UserRecord)
	}
	return users
}

func (s *Store) save(users map[string]repository.UserRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
