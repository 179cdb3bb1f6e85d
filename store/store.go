// Package store persists projects and blocks in a local SQLite database.
// Access is serialized over one connection, matching the single-writer
// editing model.
package store

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	block_width  INTEGER NOT NULL,
	background   TEXT NOT NULL,
	font_family  TEXT NOT NULL,
	font_size    REAL NOT NULL,
	font_weight  INTEGER NOT NULL,
	text_color   TEXT NOT NULL,
	text_align   TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS blocks (
	id            TEXT PRIMARY KEY,
	project_id    TEXT NOT NULL REFERENCES projects(id),
	scenario_no   INTEGER NOT NULL,
	image0        TEXT NOT NULL DEFAULT '',
	image1        TEXT NOT NULL DEFAULT '',
	image2        TEXT NOT NULL DEFAULT '',
	title         TEXT NOT NULL DEFAULT '',
	subtitle      TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL DEFAULT '',
	body_edited   TEXT,
	layout_preset TEXT NOT NULL DEFAULT '',
	offset_x      INTEGER NOT NULL DEFAULT 0,
	offset_y      INTEGER NOT NULL DEFAULT 0,
	box_x         INTEGER NOT NULL DEFAULT 0,
	box_y         INTEGER NOT NULL DEFAULT 0,
	box_w         INTEGER NOT NULL DEFAULT 0,
	box_h         INTEGER NOT NULL DEFAULT 0,
	style         TEXT,
	deleted       INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS blocks_by_project ON blocks(project_id, scenario_no);
`

// Store wraps a single SQLite connection.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens or creates the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	flags := sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL
	if path == ":memory:" {
		flags = sqlite.OpenReadWrite | sqlite.OpenMemory
	}

	conn, err := sqlite.OpenConn(path, flags)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close() //nolint:errcheck
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	log.Debug("Opened project store", zap.String("path", path))
	return &Store{conn: conn, log: log.Named("store")}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
