// Package sqlite provides a SQLite-backed chunk store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openkisan/kisanq/pkg/docstore"
)

// Store implements docstore.Store using SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Config holds configuration for the SQLite chunk store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string
}

// NewStore creates a new SQLite-backed chunk store.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", docstore.ErrConnection, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}'
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	logger.Info("sqlite chunk store initialized",
		"db_path", c.DBPath,
	)

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// Put stores chunks. Chunks with an existing ID are replaced.
func (s *Store) Put(ctx context.Context, chunks []docstore.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range chunks {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for chunk %s: %w", c.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunks(id, text, metadata) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET text = excluded.text, metadata = excluded.metadata`,
			c.ID, c.Text, string(meta),
		); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("stored chunks",
		"count", len(chunks),
	)

	return nil
}

// Get retrieves chunks by their IDs, preserving request order.
func (s *Store) Get(ctx context.Context, ids []string) ([]docstore.Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, text, metadata FROM chunks WHERE id IN (%s)`,
		strings.Join(placeholders, ","),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]docstore.Chunk, len(ids))
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	out := make([]docstore.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// List returns all stored chunks.
func (s *Store) List(ctx context.Context) ([]docstore.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, metadata FROM chunks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var out []docstore.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return out, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanChunk(rows *sql.Rows) (docstore.Chunk, error) {
	var c docstore.Chunk
	var meta string
	if err := rows.Scan(&c.ID, &c.Text, &meta); err != nil {
		return docstore.Chunk{}, fmt.Errorf("scanning chunk: %w", err)
	}
	if err := json.Unmarshal([]byte(meta), &c.Metadata); err != nil {
		return docstore.Chunk{}, fmt.Errorf("unmarshaling metadata for chunk %s: %w", c.ID, err)
	}
	return c, nil
}

var _ docstore.Store = (*Store)(nil)
