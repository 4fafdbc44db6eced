package repository

import (
	"context"
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("user record not found")

// UserRecord is the persisted assessment trail for one learner. Payload is a
// free-form merge of the session artifacts (profile, scores, levels, track,
// gap, report); the store never interprets it.
type UserRecord struct {
	UserID    string         `json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Payload   map[string]any `json:"payload"`
}

// UserRecordStore persists assessment records. Upsert merges the updates
// into the existing payload field by field and stamps updated_at; a first
// write also stamps created_at.
type UserRecordStore interface {
	Get(ctx context.Context, userID string) (UserRecord, error)
	Upsert(ctx context.Context, userID string, updates map[string]any) (UserRecord, error)
	All(ctx context.Context) ([]UserRecord, error)
	Close() error
}
