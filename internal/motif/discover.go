package motif

import (
	"sort"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

// DiscoverOptions bounds frequent k-mer discovery.
type DiscoverOptions struct {
	MinLen  int
	MaxLen  int
	MinFreq int
	Limit   int // 0 means no limit
}

// DefaultDiscoverOptions returns the bounds used by the CLI.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{MinLen: 4, MaxLen: 8, MinFreq: 3}
}

// Discovered is a candidate motif with its corpus frequency.
type Discovered struct {
	Motif     model.Motif `json:"motif"`
	Frequency int         `json:"frequency"`
}

// Discover counts every k-mer of length MinLen..MaxLen (overlapping
// occurrences included) and returns those seen at least MinFreq times whose
// pattern is not already catalogued. Candidates are custom motifs named
// discovered_<pattern>, ordered by frequency, then length, then pattern.
func Discover(seqs []string, existing []model.Motif, a *alphabet.Alphabet, opts DiscoverOptions) []Discovered {
	if opts.MinLen < 1 {
		opts.MinLen = 1
	}
	if opts.MaxLen < opts.MinLen {
		opts.MaxLen = opts.MinLen
	}
	if opts.MinFreq < 1 {
		opts.MinFreq = 1
	}

	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.Pattern] = true
	}

	counts := make(map[string]int)
	for _, raw := range seqs {
		s := alphabet.Normalize(raw)
		for k := opts.MinLen; k <= opts.MaxLen; k++ {
			for i := 0; i+k <= len(s); i++ {
				kmer := s[i : i+k]
				if a != nil && !a.Covers(kmer) {
					continue
				}
				counts[kmer]++
			}
		}
	}

	var out []Discovered
	for kmer, n := range counts {
		if n < opts.MinFreq || known[kmer] {
			continue
		}
		out = append(out, Discovered{
			Motif: model.Motif{
				Name:     "discovered_" + kmer,
				Pattern:  kmer,
				Category: model.CategoryCustom,
			},
			Frequency: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		if len(a.Motif.Pattern) != len(b.Motif.Pattern) {
			return len(a.Motif.Pattern) > len(b.Motif.Pattern)
		}
		return a.Motif.Pattern < b.Motif.Pattern
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
