package pairstats

import (
	"reflect"
	"testing"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/corpus"
	"github.com/rcliao/motifbpe/internal/model"
)

func newCorpus(t *testing.T, lenient bool, seqs ...string) *corpus.Corpus {
	t.Helper()
	a := alphabet.MustNew(alphabet.Custom, "ABCXAUGC")
	c, err := corpus.New(seqs, a, lenient)
	if err != nil {
		t.Fatalf("corpus: %v", err)
	}
	return c
}

func pair(l, r string) model.Pair { return model.Pair{Left: l, Right: r} }

// recount rebuilds the table from scratch for comparison.
func recount(c *corpus.Corpus) map[model.Pair]int {
	out := make(map[model.Pair]int)
	for _, in := range c.Instances {
		for p, n := range Count(in.Symbols) {
			out[p] += n
		}
	}
	return out
}

func snapshot(e *Engine) map[model.Pair]int {
	out := make(map[model.Pair]int)
	for _, c := range e.Candidates(1) {
		out[c.Pair] = c.Count
	}
	return out
}

func TestOverlappingOccurrencesCount(t *testing.T) {
	c := newCorpus(t, false, "AAA")
	e := New(c, 2)
	if got := e.Count(pair("A", "A")); got != 2 {
		t.Errorf("expected 2 for AAA, got %d", got)
	}
}

func TestApplyMergeCreatesBoundaryPairs(t *testing.T) {
	c := newCorpus(t, false, "AAB", "AB")
	e := New(c, 1)

	affected := e.ApplyMerge(c, pair("A", "B"))
	if !reflect.DeepEqual(affected, []int{0, 1}) {
		t.Errorf("expected both instances affected, got %v", affected)
	}
	if e.Count(pair("A", "B")) != 0 {
		t.Error("merged pair still counted")
	}
	if e.Count(pair("A", "A")) != 0 {
		t.Error("destroyed (A,A) occurrence still counted")
	}
	if got := e.Count(pair("A", "AB")); got != 1 {
		t.Errorf("expected (A,AB) once, got %d", got)
	}
	if !reflect.DeepEqual(snapshot(e), recount(c)) {
		t.Errorf("incremental %v != recount %v", snapshot(e), recount(c))
	}
}

func TestIncrementalMatchesRecount(t *testing.T) {
	c := newCorpus(t, false, "AAAAB", "BABABA", "CAAAC", "ABCABC", "A", "")
	e := New(c, 3)
	merges := []model.Pair{pair("A", "A"), pair("A", "B"), pair("AA", "A"), pair("AB", "C"), pair("B", "A")}
	for _, p := range merges {
		if e.Count(p) == 0 {
			continue
		}
		e.ApplyMerge(c, p)
		if !reflect.DeepEqual(snapshot(e), recount(c)) {
			t.Fatalf("after %s: incremental %v != recount %v", p, snapshot(e), recount(c))
		}
	}
}

func TestOccurrencesTrackCurrentPositions(t *testing.T) {
	c := newCorpus(t, false, "XAUGCX", "AUAU")
	e := New(c, 1)
	e.ApplyMerge(c, pair("A", "U"))

	occ := e.Occurrences(c, pair("AU", "G"))
	if len(occ) != 1 || occ[0] != (Occurrence{Seq: 0, Pos: 1}) {
		t.Errorf("unexpected occurrences %v", occ)
	}
	occ = e.Occurrences(c, pair("AU", "AU"))
	if len(occ) != 1 || occ[0] != (Occurrence{Seq: 1, Pos: 0}) {
		t.Errorf("unexpected occurrences %v", occ)
	}
}

func TestCandidatesFilterAndOrder(t *testing.T) {
	c := newCorpus(t, false, "ABAB", "CB")
	e := New(c, 1)
	cands := e.Candidates(2)
	if len(cands) != 1 || cands[0].Pair != pair("A", "B") || cands[0].Count != 2 {
		t.Errorf("unexpected candidates %v", cands)
	}
	all := e.Candidates(1)
	for i := 1; i < len(all); i++ {
		if !all[i-1].Pair.Less(all[i].Pair) {
			t.Errorf("candidates not ordered: %v", all)
		}
	}
}

func TestUnknownSymbolsNeverPair(t *testing.T) {
	c := newCorpus(t, true, "A?A?")
	e := New(c, 1)
	if e.Len() != 0 {
		t.Errorf("expected no pairs around placeholders, got %v", snapshot(e))
	}
}

func TestApplyMergeAbsentPairPanics(t *testing.T) {
	c := newCorpus(t, false, "AB")
	e := New(c, 1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for absent pair")
		}
	}()
	e.ApplyMerge(c, pair("B", "A"))
}
