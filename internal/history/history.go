package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = fmt.Errorf("document not found in history")

// Entry is one remembered document open.
type Entry struct {
	URI        string
	OpenCount  int
	LastOpened int64
}

// Store persists the history of opened remote documents in a SQLite
// database.
type Store struct {
	conn *sql.DB
}

// NewStore opens (and if necessary initializes) the history database at
// dbPath.
func NewStore(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.setup(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set up history database: %w", err)
	}
	return s, nil
}

func (s *Store) setup() error {
	createTable := `
	CREATE TABLE IF NOT EXISTS opened_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uri TEXT UNIQUE NOT NULL,
		open_count INTEGER NOT NULL DEFAULT 0,
		last_opened INTEGER NOT NULL
	);
	`
	return s.executeTransaction(createTable)
}

// executeTransaction runs a single statement inside a transaction.
func (s *Store) executeTransaction(query string, args ...interface{}) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecordOpen upserts an entry for uri, bumping its open count and
// last-opened timestamp.
func (s *Store) RecordOpen(uri string, openedAt time.Time) error {
	recordOpenSQL := `
		INSERT INTO opened_documents (uri, open_count, last_opened)
		VALUES (?, 1, ?)
		ON CONFLICT(uri) DO UPDATE SET
			open_count = open_count + 1,
			last_opened = excluded.last_opened;
	`
	return s.executeTransaction(recordOpenSQL, uri, openedAt.Unix())
}

// Get retrieves the entry for uri, or ErrNotFound.
func (s *Store) Get(uri string) (*Entry, error) {
	var entry Entry
	query := `SELECT uri, open_count, last_opened FROM opened_documents WHERE uri = ?`
	err := s.conn.QueryRow(query, uri).
		Scan(&entry.URI, &entry.OpenCount, &entry.LastOpened)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve history entry: %w", err)
	}
	return &entry, nil
}

// Recent returns up to limit entries ordered from most to least recently
// opened.
func (s *Store) Recent(limit int) ([]Entry, error) {
	query := `
		SELECT uri, open_count, last_opened
		FROM opened_documents
		ORDER BY last_opened DESC, id DESC
		LIMIT ?;
	`
	rows, err := s.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.URI, &entry.OpenCount, &entry.LastOpened); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}
	return entries, nil
}

// Forget removes the entry for uri, if present.
func (s *Store) Forget(uri string) error {
	return s.executeTransaction(`DELETE FROM opened_documents WHERE uri = ?`, uri)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
