package session

import "context"

// Store persists sessions keyed by Telegram user ID. Get returns a fresh
// zero session for users it has never seen; callers mutate the copy and
// write it back with Set.
type Store interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Set(ctx context.Context, userID int64, s Session) error
	Delete(ctx context.Context, userID int64) error
	Close() error
}
