package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newKVMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPostgresKVLoad(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()

	kv := NewPostgresKV(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM portal_kv WHERE key = $1")).
		WithArgs("ghs_students").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"GHS-KSR-1234"}]`))

	value, found, err := kv.Load(context.Background(), "ghs_students")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `[{"id":"GHS-KSR-1234"}]`, string(value))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVLoadMissingKey(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()

	kv := NewPostgresKV(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM portal_kv")).
		WithArgs("ghs_auth").
		WillReturnError(sql.ErrNoRows)

	value, found, err := kv.Load(context.Background(), "ghs_auth")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVSaveUpserts(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()

	kv := NewPostgresKV(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO portal_kv")).
		WithArgs("ghs_materials", "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kv.Save(context.Background(), "ghs_materials", []byte("[]")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVSavePropagatesErrors(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()

	kv := NewPostgresKV(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO portal_kv")).
		WillReturnError(errors.New("connection reset"))

	err := kv.Save(context.Background(), "ghs_materials", []byte("[]"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVEnsureSchema(t *testing.T) {
	db, mock, cleanup := newKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS portal_kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresKV(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
