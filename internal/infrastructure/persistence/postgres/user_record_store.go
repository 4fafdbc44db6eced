package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"skill-compass/internal/repository"
)

const createUserRecordsTable = `
CREATE TABLE IF NOT EXISTS user_records (
	user_id    TEXT PRIMARY KEY,
	payload    JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// UserRecordStore persists assessment records in a single jsonb column. The
// payload merge happens server side, so concurrent upserts from two
// instances never lose fields.
type UserRecordStore struct {
	db *PostgresDB

	stmtGet    *sql.Stmt
	stmtUpsert *sql.Stmt
	stmtAll    *sql.Stmt
}

func NewUserRecordStore(db *PostgresDB) (*UserRecordStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.sqlDB().ExecContext(ctx, createUserRecordsTable); err != nil {
		return nil, err
	}

	s := &UserRecordStore{db: db}

	var err error
	s.stmtGet, err = db.sqlDB().PrepareContext(
		context.Background(),
		`SELECT user_id, payload, created_at, updated_at FROM user_records WHERE user_id = $1`,
	)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	s.stmtUpsert, err = db.sqlDB().PrepareContext(
		context.Background(),
		`INSERT INTO user_records (user_id, payload) VALUES ($1, $2::jsonb)
		 ON CONFLICT (user_id)
		 DO UPDATE SET payload = user_records.payload || EXCLUDED.payload, updated_at = now()
		 RETURNING user_id, payload, created_at, updated_at`,
	)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	s.stmtAll, err = db.sqlDB().PrepareContext(
		context.Background(),
		`SELECT user_id, payload, created_at, updated_at FROM user_records ORDER BY user_id`,
	)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

func (s *UserRecordStore) Close() error {
	var firstErr error
	closeStmt := func(st *sql.Stmt) {
		if st == nil {
			return
		}
		if err := st.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(s.stmtGet)
	closeStmt(s.stmtUpsert)
	closeStmt(s.stmtAll)

	return firstErr
}

func (s *UserRecordStore) Get(ctx context.Context, userID string) (repository.UserRecord, error) {
	row := s.stmtGet.QueryRowContext(ctx, userID)
	return scanRecord(row)
}

func (s *UserRecordStore) Upsert(ctx context.Context, userID string, updates map[string]any) (repository.UserRecord, error) {
	payload, err := json.Marshal(updates)
	if err != nil {
		return repository.UserRecord{}, err
	}
	row := s.stmtUpsert.QueryRowContext(ctx, userID, payload)
	return scanRecord(row)
}

func (s *UserRecordStore) All(ctx context.Context) ([]repository.UserRecord, error) {
	rows, err := s.stmtAll.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.UserRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type recordRow interface {
	Scan(dest ...any) error
}

func scanRecord(row recordRow) (repository.UserRecord, error) {
	var record repository.UserRecord
	var payload []byte
	if err := row.Scan(&record.UserID, &payload, &record.CreatedAt, &record.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.UserRecord{}, repository.ErrRecordNotFound
		}
		return repository.UserRecord{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &record.Payload); err != nil {
			return repository.UserRecord{}, err
		}
	}
	if record.Payload == nil {
		record.Payload = make(map[string]any)
	}
	return record, nil
}
