package session

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	store := NewPostgresStore(sqlx.NewDb(db, "postgres"))
	t.Cleanup(func() { _ = store.Close() })
	return store, mock
}

// jsonTextArg matches only when the parameter travels as a text JSON
// payload. A []byte here would reach the jsonb column as a bytea literal
// and fail server-side.
type jsonTextArg struct{}

func (jsonTextArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return json.Valid([]byte(s))
}

func TestPostgresStoreSetSendsJSONAsText(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(int64(7), jsonTextArg{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sess := Session{IsAdmin: true}
	sess.Bump("car", 2)
	if err := store.Set(context.Background(), 7, sess); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreGetDecodesRow(t *testing.T) {
	store, mock := newMockStore(t)

	raw, err := json.Marshal(Session{IsAdmin: true, Flow: FlowAdd})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	mock.ExpectQuery("SELECT data FROM sessions").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(raw))

	sess, err := store.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !sess.IsAdmin || sess.Flow != FlowAdd {
		t.Errorf("got session %+v, want admin in add flow", sess)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreGetMissingUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT data FROM sessions").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	sess, err := store.Get(context.Background(), 9)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.IsAdmin || sess.InFlow() || len(sess.Selections) != 0 {
		t.Errorf("expected zero session for unknown user, got %+v", sess)
	}
}
