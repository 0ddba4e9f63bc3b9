package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/modelio"
)

// ErrModelNotFound is returned when no stored model matches.
var ErrModelNotFound = errors.New("model not found")

// createdLayout sorts lexically in time order.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// SaveModel stores m as a JSON payload, replacing any model with the same
// ID. A model without an ID gets one.
func (s *SQLiteStore) SaveModel(ctx context.Context, m *model.Model) error {
	if m.Vocab == nil {
		return errors.New("save model: no vocabulary")
	}
	if m.ID == "" {
		m.ID = s.newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	var buf bytes.Buffer
	if err := modelio.Write(&buf, m); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO models (id, created_at, alphabet, vocab_size, merges, motif_weight, penalty_weight, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CreatedAt.UTC().Format(createdLayout), m.Alphabet, m.Vocab.Size(), len(m.Merges),
		m.Weights.MotifWeight, m.Weights.PenaltyWeight, buf.String())
	if err != nil {
		return fmt.Errorf("insert model: %w", err)
	}
	return nil
}

// GetModel returns the model with the given ID.
func (s *SQLiteStore) GetModel(ctx context.Context, id string) (*model.Model, error) {
	return s.loadModel(ctx, `SELECT payload FROM models WHERE id = ?`, id)
}

// LatestModel returns the most recently created model.
func (s *SQLiteStore) LatestModel(ctx context.Context) (*model.Model, error) {
	return s.loadModel(ctx, `SELECT payload FROM models ORDER BY created_at DESC, id DESC LIMIT 1`)
}

func (s *SQLiteStore) loadModel(ctx context.Context, query string, args ...interface{}) (*model.Model, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrModelNotFound, args[0])
		}
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return modelio.Parse([]byte(payload))
}

// ListModels lists stored models, newest first.
func (s *SQLiteStore) ListModels(ctx context.Context, limit int) ([]ModelSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, alphabet, vocab_size, merges, motif_weight, penalty_weight
		 FROM models ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ModelSummary
	for rows.Next() {
		var ms ModelSummary
		var createdAt string
		if err := rows.Scan(&ms.ID, &createdAt, &ms.Alphabet, &ms.VocabSize, &ms.Merges,
			&ms.Weights.MotifWeight, &ms.Weights.PenaltyWeight); err != nil {
			return nil, err
		}
		ms.CreatedAt, _ = time.Parse(createdLayout, createdAt)
		out = append(out, ms)
	}
	return out, rows.Err()
}

// DeleteModel removes a model.
func (s *SQLiteStore) DeleteModel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return nil
}
