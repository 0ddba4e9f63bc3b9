// Package corpus holds the sequence instances a trainer mutates merge by
// merge.
package corpus

import (
	"strings"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

// Instance is one input sequence as an ordered list of symbols.
type Instance struct {
	Symbols []string
}

// String concatenates the symbol contents.
func (in *Instance) String() string {
	return strings.Join(in.Symbols, "")
}

// Merge replaces every adjacent occurrence of p, scanning left to right and
// never reusing a symbol consumed by an earlier replacement. It returns the
// number of replacements.
func (in *Instance) Merge(p model.Pair) int {
	syms := in.Symbols
	if len(syms) < 2 {
		return 0
	}
	merged := p.Merged()
	out := syms[:0]
	n := 0
	for i := 0; i < len(syms); {
		if i+1 < len(syms) && syms[i] == p.Left && syms[i+1] == p.Right {
			out = append(out, merged)
			i += 2
			n++
			continue
		}
		out = append(out, syms[i])
		i++
	}
	in.Symbols = out
	return n
}

// Mergeable reports whether a pair may ever be merged.
func Mergeable(left, right string) bool {
	return left != model.UnknownSymbol && right != model.UnknownSymbol
}

// Corpus is the ordered set of sequence instances.
type Corpus struct {
	Instances []*Instance
}

// New splits every sequence into base symbols. In strict mode the first
// character outside the alphabet fails with *alphabet.Error.
func New(seqs []string, a *alphabet.Alphabet, lenient bool) (*Corpus, error) {
	c := &Corpus{Instances: make([]*Instance, len(seqs))}
	for i, s := range seqs {
		syms, err := a.Split(s, lenient)
		if err != nil {
			if ae, ok := err.(*alphabet.Error); ok {
				ae.Seq = i
			}
			return nil, err
		}
		c.Instances[i] = &Instance{Symbols: syms}
	}
	return c, nil
}

// Len is the number of instances.
func (c *Corpus) Len() int { return len(c.Instances) }

// Symbols is the total symbol count across instances.
func (c *Corpus) Symbols() int {
	n := 0
	for _, in := range c.Instances {
		n += len(in.Symbols)
	}
	return n
}
