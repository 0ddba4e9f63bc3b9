// Package alphabet declares the biological alphabets a tokenizer accepts
// and splits normalized sequences into base symbols.
package alphabet

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/rcliao/motifbpe/internal/model"
)

// Preset alphabet names.
const (
	RNA     = "rna"
	DNA     = "dna"
	Protein = "protein"
	Custom  = "custom"
)

var presets = map[string]string{
	RNA:     "ACGU",
	DNA:     "ACGT",
	Protein: "ACDEFGHIKLMNPQRSTVWY",
}

// Error reports a character outside the declared alphabet.
type Error struct {
	Seq    int // index of the sequence in its batch, -1 if unknown
	Offset int // rune offset inside the normalized sequence
	Char   rune
}

func (e *Error) Error() string {
	if e.Seq >= 0 {
		return fmt.Sprintf("sequence %d: character %q at offset %d is not in the alphabet", e.Seq, e.Char, e.Offset)
	}
	return fmt.Sprintf("character %q at offset %d is not in the alphabet", e.Char, e.Offset)
}

// Alphabet is a declared set of single-character base symbols.
type Alphabet struct {
	name    string
	symbols []string
	set     map[rune]bool
}

// New builds an alphabet from a preset name, or from chars when name is
// "custom".
func New(name, chars string) (*Alphabet, error) {
	if name == "" {
		name = RNA
	}
	if name != Custom {
		p, ok := presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown alphabet %q (valid: rna, dna, protein, custom)", name)
		}
		chars = p
	}
	chars = Normalize(chars)
	if chars == "" {
		return nil, fmt.Errorf("alphabet %q has no symbols", name)
	}

	a := &Alphabet{name: name, set: make(map[rune]bool)}
	for _, r := range chars {
		if unicode.IsSpace(r) || a.set[r] {
			continue
		}
		a.set[r] = true
		a.symbols = append(a.symbols, string(r))
	}
	sort.Strings(a.symbols)
	return a, nil
}

// MustNew is New for preset alphabets known to be valid.
func MustNew(name, chars string) *Alphabet {
	a, err := New(name, chars)
	if err != nil {
		panic(err)
	}
	return a
}

// DefaultWildcard is the placeholder decode writes for unknown ids.
func DefaultWildcard(name string) string {
	switch name {
	case RNA, DNA, "":
		return "N"
	case Protein:
		return "X"
	}
	return "?"
}

// Name returns the preset name.
func (a *Alphabet) Name() string { return a.name }

// Symbols returns the base symbols in sorted order.
func (a *Alphabet) Symbols() []string {
	out := make([]string, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// String returns the base symbols concatenated in sorted order.
func (a *Alphabet) String() string { return strings.Join(a.symbols, "") }

// Len is the number of base symbols.
func (a *Alphabet) Len() int { return len(a.symbols) }

// Has reports whether r is a base symbol.
func (a *Alphabet) Has(r rune) bool { return a.set[r] }

// Covers reports whether every character of s is a base symbol.
func (a *Alphabet) Covers(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !a.set[r] {
			return false
		}
	}
	return true
}

// Normalize folds compatibility forms, trims whitespace and upper-cases.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(s)))
}

// Split normalizes s and returns one symbol per character. Characters outside
// the alphabet fail with *Error, or become model.UnknownSymbol when lenient.
func (a *Alphabet) Split(s string, lenient bool) ([]string, error) {
	s = Normalize(s)
	out := make([]string, 0, len(s))
	off := 0
	for _, r := range s {
		switch {
		case a.set[r]:
			out = append(out, string(r))
		case lenient:
			out = append(out, model.UnknownSymbol)
		default:
			return nil, &Error{Seq: -1, Offset: off, Char: r}
		}
		off++
	}
	return out, nil
}
