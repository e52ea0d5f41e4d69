package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, driver string) (*SQLBlobStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := NewSQLBlobStore(db, driver)
	require.NoError(t, err)
	return s, mock
}

func TestSQLBlobStore_Get_MySQL(t *testing.T) {
	s, mock := newMockStore(t, "mysql")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM checklist_data WHERE event_id = ?")).
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"event_id":"42"}`)))

	data, err := s.Get(context.Background(), "42")

	require.NoError(t, err)
	assert.JSONEq(t, `{"event_id":"42"}`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBlobStore_Get_NotFound(t *testing.T) {
	s, mock := newMockStore(t, "postgres")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM checklist_data WHERE event_id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBlobStore_Put_MySQLUpsert(t *testing.T) {
	s, mock := newMockStore(t, "mysql")
	mock.ExpectExec("INSERT INTO checklist_data .* ON DUPLICATE KEY UPDATE").
		WithArgs("42", `{"a":1}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Put(context.Background(), "42", []byte(`{"a":1}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBlobStore_Put_PostgresUpsert(t *testing.T) {
	s, mock := newMockStore(t, "postgres")
	mock.ExpectExec(`INSERT INTO checklist_data .* ON CONFLICT \(event_id\) DO UPDATE`).
		WithArgs("42", `{"a":1}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Put(context.Background(), "42", []byte(`{"a":1}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBlobStore_Put_Error(t *testing.T) {
	s, mock := newMockStore(t, "mysql")
	mock.ExpectExec("INSERT INTO checklist_data").WillReturnError(errors.New("disk full"))

	assert.Error(t, s.Put(context.Background(), "42", []byte(`{}`)))
}

func TestSQLBlobStore_EnsureSchema(t *testing.T) {
	s, mock := newMockStore(t, "postgres")
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS checklist_data .*JSONB").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLBlobStore_RejectsUnknownDialect(t *testing.T) {
	_, err := NewSQLBlobStore(nil, "sqlite")
	assert.Error(t, err)
}
