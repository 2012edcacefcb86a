// Package ledger keeps a history of chunk edits in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Operations recorded in the ledger
const (
	OpEncode  = "encode"
	OpRemove  = "remove"
	OpCapture = "capture"
)

// Entry is one recorded edit
type Entry struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Op        string    `json:"op"`
	Path      string    `json:"path"`
	ChunkType string    `json:"chunkType"`
	Length    uint32    `json:"length"`
	CRC       uint32    `json:"crc"`
}

// Ledger stores entries in a SQLite database
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}

	for _, pragma := range allPragmas() {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	for _, stmt := range allSchemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &Ledger{db: db}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores e, filling in its ID and Time when unset
func (l *Ledger) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	query := `
		INSERT INTO entries (id, created_at, op, path, chunk_type, length, crc)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := l.db.ExecContext(ctx, query,
		e.ID,
		e.Time.UTC().Format(time.RFC3339Nano),
		e.Op,
		e.Path,
		e.ChunkType,
		int64(e.Length),
		int64(e.CRC),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting entry: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (l *Ledger) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, created_at, op, path, chunk_type, length, crc
		FROM entries
		ORDER BY rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		var length, crc int64
		if err := rows.Scan(&e.ID, &created, &e.Op, &e.Path, &e.ChunkType, &length, &crc); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Time, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing entry time: %w", err)
		}
		e.Length = uint32(length)
		e.CRC = uint32(crc)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
