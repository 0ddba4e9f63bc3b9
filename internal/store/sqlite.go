package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
)

// SQLiteStore implements MotifStore and ModelStore using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	core map[string]model.Motif

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		core:    make(map[string]model.Motif),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, m := range motif.Builtins() {
		s.core[m.Name] = m
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS motifs (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		pattern     TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT 'custom',
		weight      REAL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_motifs_category ON motifs(category);
	CREATE INDEX IF NOT EXISTS idx_motifs_pattern ON motifs(pattern);

	CREATE TABLE IF NOT EXISTS models (
		id             TEXT PRIMARY KEY,
		created_at     TEXT NOT NULL,
		alphabet       TEXT NOT NULL,
		vocab_size     INTEGER NOT NULL,
		merges         INTEGER NOT NULL,
		motif_weight   REAL NOT NULL,
		penalty_weight REAL NOT NULL,
		payload        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_models_created ON models(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// List returns core and custom motifs sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Motif, error) {
	custom, err := s.queryMotifs(ctx, `SELECT name, pattern, category, weight, created_at, updated_at
		FROM motifs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	out := make([]model.Motif, 0, len(s.core)+len(custom))
	for _, m := range s.core {
		out = append(out, m)
	}
	out = append(out, custom...)
	sortByName(out)
	return out, nil
}

func sortByName(motifs []model.Motif) {
	sort.Slice(motifs, func(i, j int) bool { return motifs[i].Name < motifs[j].Name })
}

// Get returns one motif by name.
func (s *SQLiteStore) Get(ctx context.Context, name string) (model.Motif, error) {
	if m, ok := s.core[name]; ok {
		return m, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT name, pattern, category, weight, created_at, updated_at
		FROM motifs WHERE name = ?`, name)
	m, err := scanMotif(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Motif{}, fmt.Errorf("%w: %s", motif.ErrNotFound, name)
	}
	return m, err
}

// Upsert adds or replaces a custom motif. The creation time of an existing
// motif is kept.
func (s *SQLiteStore) Upsert(ctx context.Context, m model.Motif) (model.Motif, error) {
	m, err := motif.Validate(m)
	if err != nil {
		return m, err
	}
	if _, ok := s.core[m.Name]; ok {
		return m, fmt.Errorf("%w: %s", motif.ErrImmutable, m.Name)
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return m, err
	}
	defer tx.Rollback()

	var createdAt string
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM motifs WHERE name = ?`, m.Name).Scan(&createdAt)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE motifs SET pattern = ?, category = ?, weight = ?, updated_at = ? WHERE name = ?`,
			m.Pattern, string(m.Category), weightArg(m.Weight), now.Format(time.RFC3339), m.Name)
		if err != nil {
			return m, fmt.Errorf("update motif: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		createdAt = now.Format(time.RFC3339)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO motifs (id, name, pattern, category, weight, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), m.Name, m.Pattern, string(m.Category), weightArg(m.Weight), createdAt, createdAt)
		if err != nil {
			return m, fmt.Errorf("insert motif: %w", err)
		}
	default:
		return m, err
	}

	if err := tx.Commit(); err != nil {
		return m, err
	}

	created, _ := time.Parse(time.RFC3339, createdAt)
	m.CreatedAt = &created
	updated, _ := time.Parse(time.RFC3339, now.Format(time.RFC3339))
	m.UpdatedAt = &updated
	return m, nil
}

// Remove deletes a custom motif.
func (s *SQLiteStore) Remove(ctx context.Context, name string) error {
	if _, ok := s.core[name]; ok {
		return fmt.Errorf("%w: %s", motif.ErrImmutable, name)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM motifs WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", motif.ErrNotFound, name)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryMotifs(ctx context.Context, query string, args ...interface{}) ([]model.Motif, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var motifs []model.Motif
	for rows.Next() {
		m, err := scanMotif(rows)
		if err != nil {
			return nil, err
		}
		motifs = append(motifs, m)
	}
	return motifs, rows.Err()
}

func weightArg(w *float64) interface{} {
	if w == nil {
		return nil
	}
	return *w
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMotif(row scanner) (model.Motif, error) {
	var m model.Motif
	var category, createdAt, updatedAt string
	var weight sql.NullFloat64

	err := row.Scan(&m.Name, &m.Pattern, &category, &weight, &createdAt, &updatedAt)
	if err != nil {
		return m, err
	}

	m.Category = model.Category(category)
	if weight.Valid {
		w := weight.Float64
		m.Weight = &w
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		m.CreatedAt = &t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		m.UpdatedAt = &t
	}
	return m, nil
}
