// Package store persists custom motifs and trained models.
package store

import (
	"context"
	"io"
	"time"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
)

// SearchParams holds parameters for searching motifs.
type SearchParams struct {
	// Query matches motif names and patterns as a substring.
	Query string
	// Sequence, when set, keeps only motifs whose pattern occurs in it.
	Sequence string
	Category model.Category
	Limit    int
}

// ModelSummary describes a stored model without its merge list.
type ModelSummary struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Alphabet  string        `json:"alphabet"`
	VocabSize int           `json:"vocab_size"`
	Merges    int           `json:"merges"`
	Weights   model.Weights `json:"weights"`
}

// MotifStore is the motif catalogue storage backend. Core motifs are always
// listed and can never be written or removed.
type MotifStore interface {
	// List returns core and custom motifs sorted by name.
	List(ctx context.Context) ([]model.Motif, error)

	// Get returns one motif by name.
	Get(ctx context.Context, name string) (model.Motif, error)

	// Upsert adds or replaces a custom motif.
	Upsert(ctx context.Context, m model.Motif) (model.Motif, error)

	// Remove deletes a custom motif.
	Remove(ctx context.Context, name string) error

	// Load merges custom motifs from a table, returning skipped rows.
	Load(ctx context.Context, r io.Reader) ([]motif.FormatError, error)

	// Save writes the custom motifs as a table.
	Save(ctx context.Context, w io.Writer) error

	// Search finds motifs by name, pattern, category or containing sequence.
	Search(ctx context.Context, p SearchParams) ([]model.Motif, error)
}

// ModelStore keeps trained models.
type ModelStore interface {
	// SaveModel stores m, replacing any model with the same ID.
	SaveModel(ctx context.Context, m *model.Model) error

	// GetModel returns the model with the given ID.
	GetModel(ctx context.Context, id string) (*model.Model, error)

	// LatestModel returns the most recently created model.
	LatestModel(ctx context.Context) (*model.Model, error)

	// ListModels lists stored models, newest first.
	ListModels(ctx context.Context, limit int) ([]ModelSummary, error)

	// DeleteModel removes a model.
	DeleteModel(ctx context.Context, id string) error
}

var (
	_ MotifStore = (*SQLiteStore)(nil)
	_ ModelStore = (*SQLiteStore)(nil)
)
