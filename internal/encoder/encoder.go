// Package encoder replays trained merge rules on new sequences.
package encoder

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/model"
)

// Options tune an encoder.
type Options struct {
	// CacheSize is the number of normalized sequences whose token lists are
	// kept; 0 disables the cache.
	CacheSize int
}

// Encoder turns sequences into token ids. It never mutates the model and is
// safe for concurrent use.
type Encoder struct {
	alpha    *alphabet.Alphabet
	lenient  bool
	wildcard string
	ranks    map[model.Pair]int
	vocab    *model.Vocabulary
	cache    *lru.Cache
}

// New builds an encoder for m.
func New(m *model.Model, opts Options) (*Encoder, error) {
	if m == nil || m.Vocab == nil {
		return nil, fmt.Errorf("encoder: model has no vocabulary")
	}
	a, err := alphabet.New(m.Alphabet, m.Symbols)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	ranks := make(map[model.Pair]int, len(m.Merges))
	for _, r := range m.Merges {
		p := r.Pair()
		if cur, ok := ranks[p]; !ok || r.Rank < cur {
			ranks[p] = r.Rank
		}
	}
	wildcard := m.Wildcard
	if wildcard == "" {
		wildcard = alphabet.DefaultWildcard(m.Alphabet)
	}
	e := &Encoder{
		alpha:    a,
		lenient:  m.Lenient,
		wildcard: wildcard,
		ranks:    ranks,
		vocab:    m.Vocab,
	}
	if opts.CacheSize > 0 {
		e.cache, err = lru.New(opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("encoder: cache: %w", err)
		}
	}
	return e, nil
}

// Wildcard is the placeholder written by Decode for unknown ids.
func (e *Encoder) Wildcard() string { return e.wildcard }

// split maps seq onto base symbols. The wildcard character is always
// accepted and becomes model.UnknownSymbol.
func (e *Encoder) split(seq string) ([]string, error) {
	wild := alphabet.Normalize(e.wildcard)
	out := make([]string, 0, len(seq))
	off := 0
	for _, r := range seq {
		switch {
		case e.alpha.Has(r):
			out = append(out, string(r))
		case e.lenient || string(r) == wild:
			out = append(out, model.UnknownSymbol)
		default:
			return nil, &alphabet.Error{Seq: -1, Offset: off, Char: r}
		}
		off++
	}
	return out, nil
}

// Tokens returns the symbol strings seq encodes to.
func (e *Encoder) Tokens(seq string) ([]string, error) {
	seq = alphabet.Normalize(seq)
	if e.cache != nil {
		if v, ok := e.cache.Get(seq); ok {
			return append([]string(nil), v.([]string)...), nil
		}
	}
	word, err := e.split(seq)
	if err != nil {
		return nil, err
	}
	word = e.bpe(word)
	if e.cache != nil {
		e.cache.Add(seq, append([]string(nil), word...))
	}
	return word, nil
}

// bpe repeatedly merges the adjacent pair with the lowest rank until no
// adjacent pair has a rule.
func (e *Encoder) bpe(word []string) []string {
	for len(word) > 1 {
		best := -1
		var bigram model.Pair
		for i := 0; i+1 < len(word); i++ {
			p := model.Pair{Left: word[i], Right: word[i+1]}
			if r, ok := e.ranks[p]; ok && (best < 0 || r < best) {
				best = r
				bigram = p
			}
		}
		if best < 0 {
			break
		}
		merged := bigram.Merged()
		next := make([]string, 0, len(word))
		for i := 0; i < len(word); {
			if i+1 < len(word) && word[i] == bigram.Left && word[i+1] == bigram.Right {
				next = append(next, merged)
				i += 2
				continue
			}
			next = append(next, word[i])
			i++
		}
		word = next
	}
	return word
}

// Encode returns the token ids of seq. Symbols with no vocabulary entry map
// to model.UnknownID.
func (e *Encoder) Encode(seq string) ([]int, error) {
	toks, err := e.Tokens(seq)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(toks))
	for i, t := range toks {
		ids[i], _ = e.vocab.ID(t)
	}
	return ids, nil
}

// Decode concatenates the symbols of ids. Unknown or out of range ids
// decode to the wildcard.
func (e *Encoder) Decode(ids []int) string {
	var b strings.Builder
	for _, id := range ids {
		tok, ok := e.vocab.Token(id)
		if !ok || id == model.UnknownID {
			b.WriteString(e.wildcard)
			continue
		}
		b.WriteString(tok)
	}
	return b.String()
}
