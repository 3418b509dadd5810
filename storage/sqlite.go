package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/langpoll/langpoll/logging"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS options (
    name TEXT PRIMARY KEY,
    picks INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS vote_log (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    option TEXT NOT NULL,
    ts TEXT NOT NULL
);
`

// SqliteOptionStore is the embedded single-file backend.
type SqliteOptionStore struct {
	db *sql.DB
}

// NewSqliteOptionStore opens (or creates) the database at path and makes sure
// the schema exists. Safe to call on an existing database.
func NewSqliteOptionStore(path string) (*SqliteOptionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc sqlite does not tolerate concurrent writers on one connection pool
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SqliteOptionStore{db: db}, nil
}

func (s *SqliteOptionStore) ListOptions(ctx context.Context) ([]*Option, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, picks FROM options ORDER BY position`)
	if err != nil {
		logging.Log.Errorf("STORE: sqlite list failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var options []*Option
	for rows.Next() {
		o := &Option{}
		if err := rows.Scan(&o.Name, &o.Picks); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (s *SqliteOptionStore) RecordVote(ctx context.Context, option string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE options SET picks = picks + 1 WHERE name = ?`, option)
	if err != nil {
		logging.Log.Errorf("STORE: sqlite increment failed: %v", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// unknown option, tolerated as a no-op
		return nil
	}

	id, err := newEntryID()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO vote_log (id, option, ts) VALUES (?, ?, ?)`,
		id, option, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		logging.Log.Errorf("STORE: sqlite log append failed: %v", err)
		return err
	}

	return tx.Commit()
}

func (s *SqliteOptionStore) History(ctx context.Context) ([]*LogEntry, error) {
	// seq carries insertion order, the timestamp string does not sort chronologically
	rows, err := s.db.QueryContext(ctx, `SELECT id, option, ts FROM vote_log ORDER BY seq`)
	if err != nil {
		logging.Log.Errorf("STORE: sqlite history failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []*LogEntry
	for rows.Next() {
		var (
			e  LogEntry
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Option, &ts); err != nil {
			return nil, err
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (s *SqliteOptionStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE options SET picks = 0`); err != nil {
		logging.Log.Errorf("STORE: sqlite reset counts failed: %v", err)
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vote_log`); err != nil {
		logging.Log.Errorf("STORE: sqlite clear log failed: %v", err)
		return err
	}
	return tx.Commit()
}

func (s *SqliteOptionStore) EnsureOptions(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, name := range names {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO options (name, picks, position) VALUES (?, 0, ?) ON CONFLICT(name) DO NOTHING`,
			name, i)
		if err != nil {
			logging.Log.Errorf("STORE: sqlite seed of %s failed: %v", name, err)
			return err
		}
	}
	return tx.Commit()
}

func (s *SqliteOptionStore) Close() error {
	return s.db.Close()
}
