package naslstorage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
)

// SQLiteStorage implements naslregister.Storage against
// database/sql + mattn/go-sqlite3 — the "filesystem storage backend"
// spec §6 names as Storage's second concrete flavor, distinct from
// RedisStorage. KB items are rows in a table keyed by (script_key,
// name), ordered by rowid, so multiple dispatched values for one name
// are retrieved in insertion order for get_kb_item's Fork semantics
// (spec §4.3.1 scenario 5).
type SQLiteStorage struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS kb_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	script_key TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_kb_items_lookup ON kb_items(script_key, name);

CREATE TABLE IF NOT EXISTS nvt_fields (
	script_key TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (script_key, name)
);

CREATE TABLE IF NOT EXISTS description_finished (
	script_key TEXT PRIMARY KEY
);
`

// NewSQLiteStorage opens path (a file path, or ":memory:" for tests)
// and ensures the schema exists.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &naslerr.StorageError{Kind: naslerr.StorageFatal, Err: err}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &naslerr.StorageError{Kind: naslerr.StorageFatal, Err: err}
	}
	return &SQLiteStorage{db: db}, nil
}

// NewSQLiteStorageWithDB wraps an already-opened *sql.DB, used by
// tests against go-sqlmock (schema creation is skipped — the mock
// expects exact statements).
func NewSQLiteStorageWithDB(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) Dispatch(key string, field naslregister.Field) error {
	_, err := s.db.Exec(`INSERT INTO kb_items (script_key, name, value) VALUES (?, ?, ?)`,
		key, field.Name, encodeValue(field.Value))
	if err != nil {
		return wrapSQLiteErr(err)
	}
	return nil
}

func (s *SQLiteStorage) DispatchReplace(key string, field naslregister.Field) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapSQLiteErr(err)
	}
	if _, err := tx.Exec(`DELETE FROM kb_items WHERE script_key = ? AND name = ?`, key, field.Name); err != nil {
		tx.Rollback()
		return wrapSQLiteErr(err)
	}
	if _, err := tx.Exec(`INSERT INTO kb_items (script_key, name, value) VALUES (?, ?, ?)`, key, field.Name, encodeValue(field.Value)); err != nil {
		tx.Rollback()
		return wrapSQLiteErr(err)
	}
	if err := tx.Commit(); err != nil {
		return wrapSQLiteErr(err)
	}
	return nil
}

func (s *SQLiteStorage) Retrieve(key string, r naslregister.Retrieve) ([]naslregister.Field, error) {
	if r.Kind != naslregister.RetrieveKB {
		return nil, &naslerr.StorageError{Kind: naslerr.StorageFatal, Err: errors.New("sqlite storage only retrieves KB items")}
	}
	rows, err := s.db.Query(`SELECT value FROM kb_items WHERE script_key = ? AND name = ? ORDER BY id`, key, r.Name)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	defer rows.Close()

	var out []naslregister.Field
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, wrapSQLiteErr(err)
		}
		out = append(out, naslregister.Field{Name: r.Name, Value: decodeValue(raw)})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return out, nil
}

func (s *SQLiteStorage) DescriptionScriptFinished(key string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO description_finished (script_key) VALUES (?)`, key)
	if err != nil {
		return wrapSQLiteErr(err)
	}
	return nil
}

func (s *SQLiteStorage) CacheNVTField(key string, field naslregister.Field) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO nvt_fields (script_key, name, value) VALUES (?, ?, ?)`,
		key, field.Name, encodeValue(field.Value))
	if err != nil {
		return wrapSQLiteErr(err)
	}
	return nil
}

// FeedVersion mirrors RedisStorage.FeedVersion for the sqlite backend.
func (s *SQLiteStorage) FeedVersion(key string) (string, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM nvt_fields WHERE script_key = ? AND name = 'version'`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapSQLiteErr(err)
	}
	return decodeValue(raw).String(), true, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func wrapSQLiteErr(err error) error {
	return &naslerr.StorageError{Kind: naslerr.StorageFatal, Err: fmt.Errorf("sqlite: %w", err)}
}
