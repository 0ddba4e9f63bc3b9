package store

import (
	"context"
	"strings"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

// Search finds motifs whose name or pattern contains the query substring,
// optionally restricted to a category and to patterns occurring in a
// sequence. Core motifs are searched alongside the stored ones.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Motif, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.Query != "" {
		q := "%" + p.Query + "%"
		where = append(where, "(name LIKE ? OR pattern LIKE ?)")
		args = append(args, q, "%"+alphabet.Normalize(p.Query)+"%")
	}
	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(p.Category))
	}

	custom, err := s.queryMotifs(ctx, `SELECT name, pattern, category, weight, created_at, updated_at
		FROM motifs WHERE `+strings.Join(where, " AND ")+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}

	var core []model.Motif
	for _, m := range s.core {
		if p.Category != "" && m.Category != p.Category {
			continue
		}
		if p.Query != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(p.Query)) &&
			!strings.Contains(m.Pattern, alphabet.Normalize(p.Query)) {
			continue
		}
		core = append(core, m)
	}

	all := append(core, custom...)
	sortByName(all)
	seq := alphabet.Normalize(p.Sequence)
	var results []model.Motif
	for _, m := range all {
		if seq != "" && !strings.Contains(seq, m.Pattern) {
			continue
		}
		results = append(results, m)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}
