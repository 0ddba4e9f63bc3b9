// Package pairstats maintains corpus-wide counts of adjacent symbol pairs
// and updates them incrementally as merges are applied.
package pairstats

import (
	"fmt"
	"sort"

	"github.com/rcliao/motifbpe/internal/corpus"
	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/parallel"
)

// Stat is the corpus-wide state of one pair type.
type Stat struct {
	Count int
	// Seqs maps an instance index to its number of occurrences.
	Seqs map[int]int
}

// Occurrence locates one pair occurrence: the left symbol's index.
type Occurrence struct {
	Seq int
	Pos int
}

// Candidate is a pair with its corpus frequency.
type Candidate struct {
	Pair  model.Pair
	Count int
}

// Engine holds the pair table. It is not safe for concurrent mutation;
// readers may run concurrently between merges.
type Engine struct {
	stats   map[model.Pair]*Stat
	workers int
}

// New counts every adjacent pair of c. Instances are counted in parallel and
// combined in instance order.
func New(c *corpus.Corpus, workers int) *Engine {
	e := &Engine{
		stats:   make(map[model.Pair]*Stat),
		workers: workers,
	}
	local := make([]map[model.Pair]int, c.Len())
	parallel.For(c.Len(), workers, func(i int) {
		local[i] = Count(c.Instances[i].Symbols)
	})
	for i, counts := range local {
		e.add(i, counts, 1)
	}
	return e
}

// Count returns the adjacent pair counts of one symbol list. Overlapping
// occurrences each count: AAA holds (A,A) twice.
func Count(syms []string) map[model.Pair]int {
	counts := make(map[model.Pair]int)
	for i := 0; i+1 < len(syms); i++ {
		if !corpus.Mergeable(syms[i], syms[i+1]) {
			continue
		}
		counts[model.Pair{Left: syms[i], Right: syms[i+1]}]++
	}
	return counts
}

func (e *Engine) add(seq int, counts map[model.Pair]int, sign int) {
	for p, n := range counts {
		st := e.stats[p]
		if st == nil {
			if sign < 0 {
				panic(fmt.Sprintf("pairstats: removing unknown pair %s from instance %d", p, seq))
			}
			st = &Stat{Seqs: make(map[int]int)}
			e.stats[p] = st
		}
		st.Count += sign * n
		st.Seqs[seq] += sign * n
		if st.Count < 0 || st.Seqs[seq] < 0 {
			panic(fmt.Sprintf("pairstats: negative count for %s in instance %d", p, seq))
		}
		if st.Seqs[seq] == 0 {
			delete(st.Seqs, seq)
		}
		if st.Count == 0 {
			delete(e.stats, p)
		}
	}
}

// Len is the number of distinct pair types present.
func (e *Engine) Len() int { return len(e.stats) }

// Count returns the corpus frequency of p.
func (e *Engine) Count(p model.Pair) int {
	if st, ok := e.stats[p]; ok {
		return st.Count
	}
	return 0
}

// Instances returns the indices of the instances containing p, ascending.
func (e *Engine) Instances(p model.Pair) []int {
	st, ok := e.stats[p]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(st.Seqs))
	for i := range st.Seqs {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Occurrences lists every current (instance, position) of p.
func (e *Engine) Occurrences(c *corpus.Corpus, p model.Pair) []Occurrence {
	var out []Occurrence
	for _, i := range e.Instances(p) {
		syms := c.Instances[i].Symbols
		for pos := 0; pos+1 < len(syms); pos++ {
			if syms[pos] == p.Left && syms[pos+1] == p.Right {
				out = append(out, Occurrence{Seq: i, Pos: pos})
			}
		}
	}
	return out
}

// Candidates returns the pairs with frequency >= minFreq, ordered by pair.
func (e *Engine) Candidates(minFreq int) []Candidate {
	var out []Candidate
	for p, st := range e.stats {
		if st.Count >= minFreq {
			out = append(out, Candidate{Pair: p, Count: st.Count})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair.Less(out[j].Pair) })
	return out
}

// ApplyMerge merges p in every instance that contains it and updates the
// table: each affected instance's old pairs are removed once per occurrence
// and its new pairs, including those formed with the merged symbol, added.
// It returns the affected instance indices in ascending order.
func (e *Engine) ApplyMerge(c *corpus.Corpus, p model.Pair) []int {
	affected := e.Instances(p)
	if len(affected) == 0 {
		panic(fmt.Sprintf("pairstats: merge of absent pair %s", p))
	}

	before := make([]map[model.Pair]int, len(affected))
	after := make([]map[model.Pair]int, len(affected))
	parallel.For(len(affected), e.workers, func(k int) {
		in := c.Instances[affected[k]]
		before[k] = Count(in.Symbols)
		if in.Merge(p) == 0 {
			panic(fmt.Sprintf("pairstats: instance %d indexed for %s but has no occurrence", affected[k], p))
		}
		after[k] = Count(in.Symbols)
	})

	for k, seq := range affected {
		e.add(seq, before[k], -1)
		e.add(seq, after[k], 1)
	}
	return affected
}
