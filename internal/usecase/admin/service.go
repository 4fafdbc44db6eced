package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"skill-compass/internal/repository"
)

var (
	ErrDisabled        = errors.New("admin access disabled")
	ErrInvalidPassword = errors.New("invalid admin password")
	ErrInternal        = errors.New("internal error")
	ErrUserNotFound    = errors.New("user not found")
)

// Stats summarize how far users got through the flow.
type Stats struct {
	TotalUsers       int `json:"total_users"`
	InterviewReached int `json:"interview_reached"`
	ResultsReached   int `json:"results_reached"`
}

// Row is one line of the users table and of the CSV export.
type Row struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	CurrentStep string `json:"current_step"`
	Track       string `json:"track"`
	CreatedAt   string `json:"created_at"`
}

// Overview is the dashboard payload: the funnel stats plus the user rows.
type Overview struct {
	Stats Stats `json:"stats"`
	Users []Row `json:"users"`
}

// Service backs the admin dashboard. Access is gated by a bcrypt hash from
// the configuration; an empty hash disables the dashboard entirely.
type Service struct {
	passwordHash string
	records      repository.UserRecordStore
}

func NewService(passwordHash string, records repository.UserRecordStore) *Service {
	return &Service{passwordHash: passwordHash, records: records}
}

// Authenticate checks the admin password against the configured hash.
func (s *Service) Authenticate(password string) error {
	if s.passwordHash == "" {
		return ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// Overview loads every record and reduces it to the funnel stats and table
// rows. A user counts as having reached the interview once the step is
// interview or later, or the completion flag is set.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	records, err := s.allRecords(ctx)
	if err != nil {
		return Overview{}, err
	}

	overview := Overview{Users: make([]Row, 0, len(records))}
	overview.Stats.TotalUsers = len(records)
	for _, record := range records {
		if reachedInterview(record.Payload) {
			overview.Stats.InterviewReached++
		}
		if reachedResults(record.Payload) {
			overview.Stats.ResultsReached++
		}
		overview.Users = append(overview.Users, rowFromRecord(record))
	}
	return overview, nil
}

// ExportCSV renders the users table as a CSV document.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	records, err := s.allRecords(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"user_id", "name", "current_step", "track", "created_at"}); err != nil {
		return nil, ErrInternal
	}
	for _, record := range records {
		row := rowFromRecord(record)
		if err := w.Write([]string{row.UserID, row.Name, row.CurrentStep, row.Track, row.CreatedAt}); err != nil {
			return nil, ErrInternal
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, ErrInternal
	}
	return buf.Bytes(), nil
}

// UserDetail returns the full record for one user.
func (s *Service) UserDetail(ctx context.Context, userID string) (repository.UserRecord, error) {
	if s.records == nil {
		return repository.UserRecord{}, ErrUserNotFound
	}
	record, err := s.records.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return repository.UserRecord{}, ErrUserNotFound
		}
		return repository.UserRecord{}, ErrInternal
	}
	return record, nil
}

func (s *Service) allRecords(ctx context.Context) ([]repository.UserRecord, error) {
	if s.records == nil {
		return nil, nil
	}
	records, err := s.records.All(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return records, nil
}

func rowFromRecord(record repository.UserRecord) Row {
	row := Row{
		UserID:      record.UserID,
		Name:        payloadString(record.Payload, "name"),
		CurrentStep: payloadString(record.Payload, "current_step"),
		Track:       payloadString(record.Payload, "track"),
	}
	if !record.CreatedAt.IsZero() {
		row.CreatedAt = record.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if gap, ok := record.Payload["gap"].(map[string]any); ok {
		if track, ok := gap["track"].(string); ok && track != "" {
			row.Track = track
		}
	}
	return row
}

func reachedInterview(payload map[string]any) bool {
	if flag, ok := payload["interview_completed"].(bool); ok && flag {
		return true
	}
	switch payloadString(payload, "current_step") {
	case "interview", "skill_map", "results":
		return true
	}
	return false
}

func reachedResults(payload map[string]any) bool {
	if flag, ok := payload["results_generated"].(bool); ok && flag {
		return true
	}
	return payloadString(payload, "current_step") == "results"
}

func payloadString(payload map[string]any, key string) string {
	if value, ok := payload[key].(string); ok {
		return value
	}
	return ""
}
