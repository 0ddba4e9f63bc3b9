package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string          `json:"db_path"`
	DBSizeBytes  int64           `json:"db_size_bytes"`
	TotalMotifs  int             `json:"total_motifs"`
	CustomMotifs int             `json:"custom_motifs"`
	Models       int             `json:"models"`
	Categories   []CategoryStats `json:"categories"`
}

// CategoryStats holds per-category motif counts.
type CategoryStats struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Builtin  int    `json:"builtin"`
}

// Stats returns database statistics. Core motifs are counted with the
// stored ones.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM motifs`).Scan(&st.CustomMotifs)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM models`).Scan(&st.Models)
	st.TotalMotifs = st.CustomMotifs + len(s.core)

	counts := map[string]*CategoryStats{}
	var order []string
	get := func(cat string) *CategoryStats {
		cs, ok := counts[cat]
		if !ok {
			cs = &CategoryStats{Category: cat}
			counts[cat] = cs
			order = append(order, cat)
		}
		return cs
	}
	for _, cat := range []string{"seed", "conserved", "custom"} {
		get(cat)
	}
	for _, m := range s.core {
		cs := get(string(m.Category))
		cs.Count++
		cs.Builtin++
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM motifs GROUP BY category`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var n int
		rows.Scan(&cat, &n)
		get(cat).Count += n
	}

	for _, cat := range order {
		st.Categories = append(st.Categories, *counts[cat])
	}
	return st, nil
}
