// Package model defines the core tokenizer data types.
package model

import (
	"fmt"
	"time"
)

// UnknownSymbol stands in for a character outside the declared alphabet.
// It never takes part in a merge and always encodes to UnknownID.
const UnknownSymbol = "<unk>"

// Category classifies a motif.
type Category string

const (
	CategorySeed      Category = "seed"
	CategoryConserved Category = "conserved"
	CategoryCustom    Category = "custom"
)

// ValidCategories are the allowed motif categories.
var ValidCategories = map[Category]bool{
	CategorySeed:      true,
	CategoryConserved: true,
	CategoryCustom:    true,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !ValidCategories[c] {
		return "", fmt.Errorf("unknown category %q (valid: seed, conserved, custom)", s)
	}
	return c, nil
}

// Motif is a named, biologically meaningful subsequence pattern.
type Motif struct {
	Name     string   `json:"name"`
	Pattern  string   `json:"pattern"`
	Category Category `json:"category"`
	// Weight overrides the global motif weight when set.
	Weight    *float64   `json:"weight,omitempty"`
	Builtin   bool       `json:"builtin,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EffectiveWeight returns the per-motif override or the global weight.
func (m Motif) EffectiveWeight(global float64) float64 {
	if m.Weight != nil {
		return *m.Weight
	}
	return global
}

// Span is one motif occurrence in the current symbol-index space of a
// sequence instance. End is exclusive.
type Span struct {
	Motif string `json:"motif"`
	Seq   int    `json:"seq"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Contains reports whether symbol index i lies inside the span.
func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// Pair is an ordered pair of adjacent symbols.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Merged returns the symbol produced by merging the pair.
func (p Pair) Merged() string {
	return p.Left + p.Right
}

// Less orders pairs by left symbol, then right symbol.
func (p Pair) Less(o Pair) bool {
	if p.Left != o.Left {
		return p.Left < o.Left
	}
	return p.Right < o.Right
}

func (p Pair) String() string {
	return p.Left + "+" + p.Right
}

// MergeRule is a merge learned at a given rank. Lower rank means higher
// replay priority.
type MergeRule struct {
	Rank   int    `json:"rank"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	Result string `json:"result"`
}

// Pair returns the rule's symbol pair.
func (r MergeRule) Pair() Pair {
	return Pair{Left: r.Left, Right: r.Right}
}

// Weights is the scoring configuration captured with a trained model.
type Weights struct {
	MotifWeight   float64 `json:"motif_weight"`
	PenaltyWeight float64 `json:"penalty_weight"`
}

// Model is the trained artifact: alphabet, ordered merge rules and vocabulary.
type Model struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Alphabet  string    `json:"alphabet"`
	Symbols   string    `json:"symbols"`
	Wildcard  string    `json:"wildcard"`
	Lenient   bool      `json:"lenient"`
	VocabSize int       `json:"vocab_size"`
	MinFreq   int       `json:"min_freq"`
	Weights   Weights   `json:"weights"`

	// Stop records why training ended.
	Stop   string      `json:"stop,omitempty"`
	Merges []MergeRule `json:"merges"`
	Vocab  *Vocabulary `json:"vocab"`
}
