// Package localstore is the durable last-resort write target of the fallback
// chain. It keeps a single named key holding the whole submission list as a
// JSON array, read and written wholesale; SQLite is only the engine under
// that key.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/ncc-robotics/workshop-survey/wire"
)

const submissionsKey = "survey_submissions"

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		db.Close()
		return nil, err
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Read returns the persisted submission list, or nil when the key has never
// been written. A value that no longer parses as a JSON array is an error;
// the caller decides whether to surface or overwrite it.
func (s *Store) Read(ctx context.Context) ([]wire.Record, error) {
	var value string
	err := s.db.
		QueryRowContext(ctx, "SELECT value FROM fallback WHERE key = ?", submissionsKey).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []wire.Record
	err = json.Unmarshal([]byte(value), &records)
	if err != nil {
		return nil, errors.Wrap(err, "localstore: corrupt submission list")
	}
	return records, nil
}

// Write replaces the persisted submission list wholesale.
func (s *Store) Write(ctx context.Context, records []wire.Record) error {
	if records == nil {
		records = []wire.Record{}
	}
	value, err := json.Marshal(records)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fallback (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		submissionsKey,
		string(value),
	)
	return err
}
