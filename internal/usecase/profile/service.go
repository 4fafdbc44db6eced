package profile

import (
	"context"
	"errors"

	"skill-compass/internal/domain/profile"
	"skill-compass/internal/repository"
)

var ErrInternal = errors.New("internal error")

// Input carries the questionnaire: the profile form plus the three routing
// answers that drive track selection later.
type Input struct {
	Profile    profile.Input `json:"profile"`
	Goal       string        `json:"goal"`
	WeeklyTime string        `json:"weekly_time"`
	Preference string        `json:"preference"`
}

// Service validates and stores the questionnaire step.
type Service struct {
	records repository.UserRecordStore
}

func NewService(records repository.UserRecordStore) *Service {
	return &Service{records: records}
}

// Save normalizes the profile and persists it with the routing answers.
// Validation errors wrap profile.ErrInvalidProfile so callers can map them
// to a client error.
func (s *Service) Save(ctx context.Context, userID string, in Input) (profile.Profile, error) {
	normalized, err := profile.Normalize(in.Profile)
	if err != nil {
		return profile.Profile{}, err
	}

	if s.records != nil && userID != "" {
		updates := map[string]any{
			"profile":      normalized,
			"goal":         in.Goal,
			"weekly_time":  in.WeeklyTime,
			"preference":   in.Preference,
			"current_step": "interview",
		}
		if _, err := s.records.Upsert(ctx, userID, updates); err != nil {
			return profile.Profile{}, ErrInternal
		}
	}
	return normalized, nil
}

// Load reads the stored questionnaire back, if any.
func (s *Service) Load(ctx context.Context, userID string) (map[string]any, error) {
	if s.records == nil || userID == "" {
		return nil, repository.ErrRecordNotFound
	}
	record, err := s.records.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, err
		}
		return nil, ErrInternal
	}
	return record.Payload, nil
}
