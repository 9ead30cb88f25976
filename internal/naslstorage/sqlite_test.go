package naslstorage

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestSQLiteStorage_Dispatch(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSQLiteStorageWithDB(db)

	mock.ExpectExec(`INSERT INTO kb_items`).
		WithArgs("script-1", "k", "s:hello").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Dispatch("script-1", naslregister.Field{Name: "k", Value: naslvalue.Str("hello")}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_Retrieve(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSQLiteStorageWithDB(db)

	rows := sqlmock.NewRows([]string{"value"}).AddRow("n:1").AddRow("n:2")
	mock.ExpectQuery(`SELECT value FROM kb_items`).
		WithArgs("script-1", "k").
		WillReturnRows(rows)

	fields, err := s.Retrieve("script-1", naslregister.Retrieve{Kind: naslregister.RetrieveKB, Name: "k"})
	require.NoError(t, err)
	require.Equal(t, []naslregister.Field{
		{Name: "k", Value: naslvalue.Num(1)},
		{Name: "k", Value: naslvalue.Num(2)},
	}, fields)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_DispatchReplace(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSQLiteStorageWithDB(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM kb_items`).WithArgs("script-1", "k").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO kb_items`).WithArgs("script-1", "k", "n:3").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DispatchReplace("script-1", naslregister.Field{Name: "k", Value: naslvalue.Num(3)}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_CacheNVTFieldAndFeedVersion(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSQLiteStorageWithDB(db)

	mock.ExpectExec(`INSERT OR REPLACE INTO nvt_fields`).
		WithArgs("plugin_feed_info.inc", "version", "s:202601010000").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.CacheNVTField("plugin_feed_info.inc", naslregister.Field{Name: "version", Value: naslvalue.Str("202601010000")}))

	rows := sqlmock.NewRows([]string{"value"}).AddRow("s:202601010000")
	mock.ExpectQuery(`SELECT value FROM nvt_fields`).
		WithArgs("plugin_feed_info.inc").
		WillReturnRows(rows)

	version, ok, err := s.FeedVersion("plugin_feed_info.inc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "202601010000", version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_FeedVersionMissing(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSQLiteStorageWithDB(db)

	mock.ExpectQuery(`SELECT value FROM nvt_fields`).
		WithArgs("plugin_feed_info.inc").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := s.FeedVersion("plugin_feed_info.inc")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
