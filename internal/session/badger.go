package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/izimoto/paintbot/core/logger"
)

// BadgerStore keeps sessions in an embedded badger database, one JSON value
// per user. This is the default backend: no external services, survives
// restarts.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the badger database under dir. Badger's own
// chatty logger is disabled; store-level events go through ours.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session db %s: %w", dir, err)
	}
	logger.Info(logger.Background(), "session", "session.store.opened",
		slog.String("backend", "badger"),
		slog.String("path", dir),
	)
	return &BadgerStore{db: db}, nil
}

func badgerKey(userID int64) []byte {
	return []byte(strconv.FormatInt(userID, 10))
}

// Get loads a user's session, returning a zero session for unknown users.
func (s *BadgerStore) Get(ctx context.Context, userID int64) (Session, error) {
	var sess Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session %d: %w", userID, err)
	}
	return sess, nil
}

// Set writes a user's session as JSON.
func (s *BadgerStore) Set(ctx context.Context, userID int64, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", userID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(userID), data)
	})
	if err != nil {
		return fmt.Errorf("set session %d: %w", userID, err)
	}
	return nil
}

// Delete removes a user's session entirely. Deleting an absent key is a no-op.
func (s *BadgerStore) Delete(ctx context.Context, userID int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(userID))
	})
	if err != nil {
		return fmt.Errorf("delete session %d: %w", userID, err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
