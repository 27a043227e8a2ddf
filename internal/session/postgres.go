package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps sessions in a sessions table, for deployments that run
// several bot processes against shared state. Schema lives in migrations/.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an already-connected pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID int64) (Session, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		`SELECT data FROM sessions WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session %d: %w", userID, err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session %d: %w", userID, err)
	}
	return sess, nil
}

func (s *PostgresStore) Set(ctx context.Context, userID int64, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", userID, err)
	}
	// lib/pq encodes []byte arguments as bytea literals, which the jsonb
	// column rejects; the payload has to travel as text.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		userID, string(data))
	if err != nil {
		return fmt.Errorf("set session %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
