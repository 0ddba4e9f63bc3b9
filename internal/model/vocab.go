package model

import (
	"encoding/json"
	"fmt"
)

// UnknownID is the reserved token id for symbols with no vocabulary entry.
const UnknownID = 0

// Vocabulary maps symbol strings to dense integer ids. Id 0 is reserved for
// the unknown token; symbols are numbered from 1 in insertion order.
type Vocabulary struct {
	tokens []string
	ids    map[string]int
}

// NewVocabulary returns a vocabulary holding only the reserved unknown token.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		tokens: []string{UnknownSymbol},
		ids:    map[string]int{UnknownSymbol: UnknownID},
	}
}

// Add inserts a symbol and returns its id. An existing symbol keeps its id.
func (v *Vocabulary) Add(sym string) int {
	if id, ok := v.ids[sym]; ok {
		return id
	}
	id := len(v.tokens)
	v.tokens = append(v.tokens, sym)
	v.ids[sym] = id
	return id
}

// ID returns the id of sym, or UnknownID if it has none.
func (v *Vocabulary) ID(sym string) (int, bool) {
	id, ok := v.ids[sym]
	if !ok {
		return UnknownID, false
	}
	return id, true
}

// Token returns the symbol for id.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Size is the number of symbols, not counting the reserved unknown token.
func (v *Vocabulary) Size() int {
	return len(v.tokens) - 1
}

// Tokens returns the symbols in id order, starting with the unknown token.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.tokens)
}

func (v *Vocabulary) UnmarshalJSON(b []byte) error {
	var tokens []string
	if err := json.Unmarshal(b, &tokens); err != nil {
		return err
	}
	if len(tokens) == 0 || tokens[0] != UnknownSymbol {
		return fmt.Errorf("vocabulary must start with %s", UnknownSymbol)
	}
	ids := make(map[string]int, len(tokens))
	for i, t := range tokens {
		if _, dup := ids[t]; dup {
			return fmt.Errorf("duplicate vocabulary entry %q", t)
		}
		ids[t] = i
	}
	v.tokens = tokens
	v.ids = ids
	return nil
}
