package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
)

// SQLiteStore keeps persisted diagnostic results in a key/value table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ services.KeyValueStore = (*SQLiteStore)(nil)

// updatedAtLayout is fixed width so updated_at sorts as text.
const updatedAtLayout = "2006-01-02T15:04:05.000000000Z"

// Open opens the database file at path with a busy timeout.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logErr("get "+key, err)
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(updatedAtLayout))
	s.logErr("set "+key, err)
	return err
}

func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, key)
	s.logErr("delete "+key, err)
	return err
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM kv_entries`).Scan(&n)
	return n, err
}

// PruneBefore deletes entries last written before cutoff and returns how many
// were removed.
func (s *SQLiteStore) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM kv_entries WHERE updated_at < ?`, cutoff.UTC().Format(updatedAtLayout))
	if err != nil {
		s.logErr("prune", err)
		return 0, err
	}
	return res.RowsAffected()
}
