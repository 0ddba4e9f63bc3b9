package store

import (
	"context"
	"testing"

	"github.com/rcliao/motifbpe/internal/model"
)

func names(ms []model.Motif) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestSearch_Basic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Upsert(ctx, model.Motif{Name: "hairpin_a", Pattern: "GGAUCC"})
	s.Upsert(ctx, model.Motif{Name: "hairpin_b", Pattern: "GCAUGC", Category: model.CategoryConserved})
	s.Upsert(ctx, model.Motif{Name: "box", Pattern: "UUUU"})

	// Search by name
	results, err := s.Search(ctx, SearchParams{Query: "hairpin"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", names(results))
	}

	// Search by pattern, case-folded; reaches core motifs too
	results, err = s.Search(ctx, SearchParams{Query: "augc"})
	if err != nil {
		t.Fatal(err)
	}
	got := names(results)
	if len(got) != 3 || got[0] != "conserved_2" || got[1] != "hairpin_b" || got[2] != "seed_mir155" {
		t.Fatalf("expected conserved_2, hairpin_b, seed_mir155, got %v", got)
	}

	// Category filter
	results, err = s.Search(ctx, SearchParams{Query: "hairpin", Category: model.CategoryConserved})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "hairpin_b" {
		t.Fatalf("expected hairpin_b, got %v", names(results))
	}

	// No results
	results, err = s.Search(ctx, SearchParams{Query: "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %v", names(results))
	}
}

func TestSearch_InSequence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Upsert(ctx, model.Motif{Name: "box", Pattern: "UUUU"})

	results, err := s.Search(ctx, SearchParams{Sequence: "cuugagguagcauuuuc"})
	if err != nil {
		t.Fatal(err)
	}
	got := names(results)
	if len(got) != 2 || got[0] != "box" || got[1] != "seed_let7" {
		t.Fatalf("expected box and seed_let7, got %v", got)
	}
}

func TestSearch_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results, err := s.Search(ctx, SearchParams{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}
