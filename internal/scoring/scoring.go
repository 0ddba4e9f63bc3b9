// Package scoring combines pair frequency with motif bonus and boundary
// penalty, and picks the merge for each training round.
package scoring

import (
	"sync/atomic"

	"github.com/rcliao/motifbpe/internal/corpus"
	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/pairstats"
	"github.com/rcliao/motifbpe/internal/parallel"
)

// Scorer owns the reloadable weights. Swap replaces them atomically; a round
// scores with the Snapshot it took when it started.
type Scorer struct {
	w atomic.Pointer[model.Weights]
}

// NewScorer returns a scorer using w.
func NewScorer(w model.Weights) *Scorer {
	s := &Scorer{}
	s.w.Store(&w)
	return s
}

// Snapshot returns the current weights.
func (s *Scorer) Snapshot() model.Weights {
	return *s.w.Load()
}

// Swap installs w for all later snapshots and returns the previous weights.
func (s *Scorer) Swap(w model.Weights) model.Weights {
	return *s.w.Swap(&w)
}

// Tally classifies the occurrences of one pair against motif spans.
type Tally struct {
	// Inside counts occurrences with both symbols inside one span.
	Inside int
	// Bonus sums, over inside occurrences, the largest weight among the
	// spans containing them.
	Bonus float64
	// Straddle counts occurrences with exactly one symbol inside a span.
	Straddle int
}

// IsZero reports whether t has no motif contribution.
func (t Tally) IsZero() bool {
	return t.Inside == 0 && t.Straddle == 0 && t.Bonus == 0
}

// Tallies maps pairs to their motif tally.
type Tallies map[model.Pair]Tally

// Add accumulates o into ts.
func (ts Tallies) Add(o Tallies) {
	for p, t := range o {
		cur := ts[p]
		cur.Inside += t.Inside
		cur.Bonus += t.Bonus
		cur.Straddle += t.Straddle
		ts[p] = cur
	}
}

// Sub removes o from ts, dropping pairs left with nothing.
func (ts Tallies) Sub(o Tallies) {
	for p, t := range o {
		cur := ts[p]
		cur.Inside -= t.Inside
		cur.Bonus -= t.Bonus
		cur.Straddle -= t.Straddle
		if cur.Inside == 0 && cur.Straddle == 0 {
			delete(ts, p)
			continue
		}
		ts[p] = cur
	}
}

// TallySequence classifies every mergeable adjacent pair of syms against the
// spans of the same instance. Spans must be sorted by start. weight resolves
// a motif name to its bonus weight. Occurrences outside every span add
// nothing.
func TallySequence(syms []string, spans []model.Span, weight func(motif string) float64) Tallies {
	if len(spans) == 0 {
		return nil
	}
	out := make(Tallies)
	for i := 0; i+1 < len(syms); i++ {
		if !corpus.Mergeable(syms[i], syms[i+1]) {
			continue
		}
		var (
			inside   bool
			straddle bool
			best     float64
		)
		for _, sp := range spans {
			if sp.Start > i+1 {
				break
			}
			l, r := sp.Contains(i), sp.Contains(i+1)
			switch {
			case l && r:
				inside = true
				if w := weight(sp.Motif); w > best {
					best = w
				}
			case l != r:
				straddle = true
			}
		}
		if !inside && !straddle {
			continue
		}
		p := model.Pair{Left: syms[i], Right: syms[i+1]}
		t := out[p]
		if inside {
			t.Inside++
			t.Bonus += best
		}
		if straddle {
			t.Straddle++
		}
		out[p] = t
	}
	return out
}

// Score is freq + bonus - penalty_weight * straddles.
func Score(freq int, t Tally, w model.Weights) float64 {
	return float64(freq) + t.Bonus - w.PenaltyWeight*float64(t.Straddle)
}

// Candidate is a scored merge candidate.
type Candidate struct {
	Pair  model.Pair `json:"pair"`
	Freq  int        `json:"freq"`
	Score float64    `json:"score"`
	Tally Tally      `json:"tally"`
}

// Better is the selection order: higher score, then higher frequency, then
// smaller left symbol, then smaller right symbol.
func Better(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Freq != b.Freq {
		return a.Freq > b.Freq
	}
	return a.Pair.Less(b.Pair)
}

// Select scores cands in parallel and returns the best one.
func Select(cands []pairstats.Candidate, tallies Tallies, w model.Weights, workers int) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	n := parallel.Workers(workers)
	if n > len(cands) {
		n = len(cands)
	}
	best := make([]*Candidate, n)
	size := (len(cands) + n - 1) / n
	parallel.Chunks(len(cands), n, func(lo, hi int) {
		var local *Candidate
		for _, c := range cands[lo:hi] {
			t := tallies[c.Pair]
			sc := Candidate{Pair: c.Pair, Freq: c.Count, Score: Score(c.Count, t, w), Tally: t}
			if local == nil || Better(sc, *local) {
				local = &sc
			}
		}
		best[lo/size] = local
	})

	var out *Candidate
	for _, c := range best {
		if c != nil && (out == nil || Better(*c, *out)) {
			out = c
		}
	}
	return *out, true
}
