// Package storage provides SQLite-based persistence for saved designs and
// play records. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gamify/internal/design"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// DesignEntry describes a saved design without decoding it.
type DesignEntry struct {
	ID        string
	Name      string
	Width     int
	Height    int
	UpdatedAt time.Time
}

// PlayRecord is one finished play session of a design.
type PlayRecord struct {
	ID        int64
	DesignID  string
	Moves     int
	Bumps     int
	Seed      int64
	CreatedAt time.Time
}

// PlayStats aggregates the play records of one design.
type PlayStats struct {
	DesignID   string
	Plays      int
	TotalMoves int
	MostMoves  int
	LastPlayed time.Time // zero when never played
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS designs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			bundle TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			design_id TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			bumps INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_plays_design_id ON plays(design_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDesign stores d as a canonical JSON bundle, replacing any design
// with the same ID.
func (s *Store) SaveDesign(d *design.Design) error {
	if d.ID == "" {
		return fmt.Errorf("storage: cannot save design without ID")
	}
	bundle, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("storage: cannot encode design %s: %w", d.ID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO designs (id, name, width, height, bundle)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   width = excluded.width,
		   height = excluded.height,
		   bundle = excluded.bundle,
		   updated_at = CURRENT_TIMESTAMP`,
		d.ID, d.Name, d.Grid.Width(), d.Grid.Height(), string(bundle),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save design %s: %w", d.ID, err)
	}
	return nil
}

// LoadDesign retrieves a saved design. Returns nil if it does not exist.
func (s *Store) LoadDesign(id string) (*design.Design, error) {
	var bundle string
	err := s.db.QueryRow("SELECT bundle FROM designs WHERE id = ?", id).Scan(&bundle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query design: %w", err)
	}

	var d design.Design
	if err := json.Unmarshal([]byte(bundle), &d); err != nil {
		return nil, fmt.Errorf("storage: cannot decode design %s: %w", id, err)
	}
	if d.ID == "" {
		d.ID = id
	}
	return &d, nil
}

// ListDesigns returns every saved design, ordered by ID.
func (s *Store) ListDesigns() ([]DesignEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, name, width, height, updated_at
		 FROM designs
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query designs: %w", err)
	}
	defer rows.Close()

	var entries []DesignEntry
	for rows.Next() {
		var e DesignEntry
		var updatedAt any
		if err := rows.Scan(&e.ID, &e.Name, &e.Width, &e.Height, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteDesign removes a saved design and its play records.
// Returns false if no design had that ID.
func (s *Store) DeleteDesign(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM designs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete design: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM plays WHERE design_id = ?", id); err != nil {
		return false, fmt.Errorf("storage: cannot delete plays: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}

// RecordPlay stores a finished play session.
// Returns the ID of the inserted record.
func (s *Store) RecordPlay(p PlayRecord) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO plays (design_id, moves, bumps, seed) VALUES (?, ?, ?, ?)",
		p.DesignID, p.Moves, p.Bumps, p.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record play: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// History retrieves the most recent play records, newest first.
// An empty designID returns plays of every design.
func (s *Store) History(designID string, limit int) ([]PlayRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, design_id, moves, bumps, seed, created_at
		 FROM plays
		 WHERE ? = '' OR design_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		designID, designID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query plays: %w", err)
	}
	defer rows.Close()

	var records []PlayRecord
	for rows.Next() {
		var r PlayRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.DesignID, &r.Moves, &r.Bumps, &r.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Stats aggregates the play records of designID.
func (s *Store) Stats(designID string) (PlayStats, error) {
	stats := PlayStats{DesignID: designID}
	var total, most sql.NullInt64
	var last any

	err := s.db.QueryRow(
		`SELECT COUNT(*), SUM(moves), MAX(moves), MAX(created_at)
		 FROM plays
		 WHERE design_id = ?`,
		designID,
	).Scan(&stats.Plays, &total, &most, &last)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	stats.TotalMoves = int(total.Int64)
	stats.MostMoves = int(most.Int64)
	stats.LastPlayed = parseTime(last)
	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
