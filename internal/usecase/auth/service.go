package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"skill-compass/internal/pkg/jwt"
	"skill-compass/internal/repository"
)

var (
	ErrInvalidName         = errors.New("invalid name")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInternal            = errors.New("internal error")
)

const maxNameLength = 120

// Session is the result of a sign-in: the identity plus the token pair.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// Service starts assessment sessions. Sign-in is name based: there is no
// password, a session just needs a display name to address the user by.
type Service struct {
	tokens  jwt.Service
	records repository.UserRecordStore
}

func NewService(tokens jwt.Service, records repository.UserRecordStore) *Service {
	return &Service{tokens: tokens, records: records}
}

// Start creates a fresh session for the given display name. Every start
// mints a new user id; returning users continue through their refresh token,
// not by typing the same name again.
func (s *Service) Start(ctx context.Context, name string) (Session, error) {
	name = normalizeName(name)
	if name == "" {
		return Session{}, ErrInvalidName
	}

	userID := uuid.New()
	if s.records != nil {
		if _, err := s.records.Upsert(ctx, userID.String(), map[string]any{"name": name}); err != nil {
			return Session{}, ErrInternal
		}
	}

	return s.issue(userID, name)
}

// Refresh exchanges a valid refresh token for a new token pair. The display
// name is re-read from the user record since refresh tokens do not carry it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return Session{}, ErrInvalidRefreshToken
	}
	if !s.tokens.IsRefreshToken(claims) {
		return Session{}, ErrInvalidRefreshToken
	}

	name := claims.Name
	if s.records != nil {
		record, err := s.records.Get(ctx, claims.UserID.String())
		if err == nil {
			if stored, ok := record.Payload["name"].(string); ok && stored != "" {
				name = stored
			}
		} else if !errors.Is(err, repository.ErrRecordNotFound) {
			return Session{}, ErrInternal
		}
	}

	return s.issue(claims.UserID, name)
}

func (s *Service) issue(userID uuid.UUID, name string) (Session, error) {
	access, err := s.tokens.GenerateAccessToken(userID, name)
	if err != nil {
		return Session{}, ErrInternal
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return Session{}, ErrInternal
	}
	return Session{
		UserID:       userID,
		Name:         name,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if len(name) > maxNameLength {
		return ""
	}
	return name
}
