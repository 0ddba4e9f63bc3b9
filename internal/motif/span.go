package motif

import (
	"sort"
	"strings"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

// Locator finds motif spans in sequence instances. It holds a snapshot of
// the catalogue taken when it was built.
type Locator struct {
	motifs  []model.Motif
	byName  map[string]model.Motif
	skipped []string
}

// NewLocator snapshots motifs. Motifs whose pattern has characters outside a
// (when a is non-nil) can never match and are left out; Skipped lists them.
func NewLocator(motifs []model.Motif, a *alphabet.Alphabet) *Locator {
	l := &Locator{byName: make(map[string]model.Motif, len(motifs))}
	for _, m := range motifs {
		if m.Pattern == "" || (a != nil && !a.Covers(m.Pattern)) {
			l.skipped = append(l.skipped, m.Name)
			continue
		}
		l.motifs = append(l.motifs, m)
		l.byName[m.Name] = m
	}
	sort.Slice(l.motifs, func(i, j int) bool { return l.motifs[i].Name < l.motifs[j].Name })
	sort.Strings(l.skipped)
	return l
}

// Motifs returns the motifs the locator searches for.
func (l *Locator) Motifs() []model.Motif { return l.motifs }

// Skipped names the motifs left out because of the alphabet.
func (l *Locator) Skipped() []string { return l.skipped }

// Weight returns the bonus weight of the named motif under the global weight.
func (l *Locator) Weight(name string, global float64) float64 {
	if m, ok := l.byName[name]; ok {
		return m.EffectiveWeight(global)
	}
	return global
}

// FindSpans returns every motif occurrence in symbols, in symbol-index space.
// A character match counts only when both its ends fall on symbol boundaries.
// Matches of the same motif are taken leftmost-first without overlap; matches
// of different motifs may overlap. The result is sorted by start, end, motif.
func (l *Locator) FindSpans(seq int, symbols []string) []model.Span {
	if len(l.motifs) == 0 || len(symbols) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, s := range symbols {
		sb.WriteString(s)
	}
	text := sb.String()

	// boundary[off] is the index of the symbol starting at byte offset off,
	// len(symbols) at the end of text, and -1 inside a symbol.
	boundary := make([]int, len(text)+1)
	for i := range boundary {
		boundary[i] = -1
	}
	off := 0
	for i, s := range symbols {
		boundary[off] = i
		off += len(s)
	}
	boundary[len(text)] = len(symbols)

	var spans []model.Span
	for _, m := range l.motifs {
		pat := m.Pattern
		from := 0
		for from+len(pat) <= len(text) {
			i := strings.Index(text[from:], pat)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(pat)
			s, e := boundary[start], boundary[end]
			if s < 0 || e < 0 {
				from = start + 1
				continue
			}
			spans = append(spans, model.Span{Motif: m.Name, Seq: seq, Start: s, End: e})
			from = end
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Motif < b.Motif
	})
	return spans
}
