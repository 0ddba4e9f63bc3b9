package store

import (
	"context"
	"io"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
)

// ExportAll returns the custom motifs, optionally filtered by category.
func (s *SQLiteStore) ExportAll(ctx context.Context, category model.Category) ([]model.Motif, error) {
	if category != "" {
		return s.queryMotifs(ctx, `SELECT name, pattern, category, weight, created_at, updated_at
			FROM motifs WHERE category = ? ORDER BY name`, string(category))
	}
	return s.queryMotifs(ctx, `SELECT name, pattern, category, weight, created_at, updated_at
		FROM motifs ORDER BY name`)
}

// Import upserts motifs one by one. Motifs that fail validation or name a
// core motif are reported as warnings and skipped.
func (s *SQLiteStore) Import(ctx context.Context, motifs []model.Motif) (int, []motif.FormatError, error) {
	imported := 0
	var warnings []motif.FormatError
	for i, m := range motifs {
		if _, err := s.Upsert(ctx, m); err != nil {
			if ctx.Err() != nil {
				return imported, warnings, ctx.Err()
			}
			warnings = append(warnings, motif.FormatError{Row: i + 1, Name: m.Name, Reason: err.Error()})
			continue
		}
		imported++
	}
	return imported, warnings, nil
}

// Load merges custom motifs from a table. Malformed rows, and rows that
// name a core motif, are skipped and returned as warnings.
func (s *SQLiteStore) Load(ctx context.Context, r io.Reader) ([]motif.FormatError, error) {
	rows, warnings, err := motif.ReadTable(r)
	if err != nil {
		return warnings, err
	}
	for _, row := range rows {
		if _, err := s.Upsert(ctx, row.Motif); err != nil {
			if ctx.Err() != nil {
				return warnings, ctx.Err()
			}
			warnings = append(warnings, motif.FormatError{Row: row.Line, Name: row.Motif.Name, Reason: err.Error()})
		}
	}
	return warnings, nil
}

// Save writes the custom motifs as a table.
func (s *SQLiteStore) Save(ctx context.Context, w io.Writer) error {
	motifs, err := s.ExportAll(ctx, "")
	if err != nil {
		return err
	}
	return motif.WriteTable(w, motifs)
}
