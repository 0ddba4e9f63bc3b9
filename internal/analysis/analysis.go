// Package analysis measures how a trained model tokenizes a corpus.
package analysis

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
)

// Tokenizer splits a sequence into token strings.
type Tokenizer interface {
	Tokens(seq string) ([]string, error)
}

// CompressionRatio is characters per token. An empty token list gives 0.
func CompressionRatio(seq string, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(seq)) / float64(len(tokens))
}

// Preservation counts motif occurrences and how many of them a
// tokenization keeps whole: start and end on token boundaries.
type Preservation struct {
	Occurrences int     `json:"occurrences"`
	Preserved   int     `json:"preserved"`
	Percent     float64 `json:"percent"`
}

func (p *Preservation) add(o Preservation) {
	p.Occurrences += o.Occurrences
	p.Preserved += o.Preserved
	p.finish()
}

func (p *Preservation) finish() {
	if p.Occurrences == 0 {
		p.Percent = 100
		return
	}
	p.Percent = 100 * float64(p.Preserved) / float64(p.Occurrences)
}

// MotifPreservation compares the motif occurrences of the underlying
// sequence with those that survive tokens. With no occurrences the
// percentage is 100.
func MotifPreservation(tokens []string, loc *motif.Locator) Preservation {
	var p Preservation
	p.Occurrences = len(loc.FindSpans(0, baseSymbols(tokens)))
	p.Preserved = len(loc.FindSpans(0, tokens))
	p.finish()
	return p
}

// baseSymbols splits tokens back into single characters, keeping the
// unknown placeholder whole.
func baseSymbols(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if t == model.UnknownSymbol {
			out = append(out, t)
			continue
		}
		for _, r := range t {
			out = append(out, string(r))
		}
	}
	return out
}

// Stats summarizes a corpus under a model.
type Stats struct {
	Sequences        int           `json:"sequences"`
	Characters       int           `json:"characters"`
	Tokens           int           `json:"tokens"`
	Distinct         int           `json:"distinct_tokens"`
	Unknown          int           `json:"unknown_tokens"`
	AvgTokensPerSeq  float64       `json:"avg_tokens_per_seq"`
	CompressionRatio float64       `json:"compression_ratio"`
	VocabUsage       float64       `json:"vocab_usage"`
	Motifs           *Preservation `json:"motifs,omitempty"`
	TopTokens        []TokenCount  `json:"top_tokens,omitempty"`
}

// TokenCount is a token and the number of times it was produced.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// TokenStats tokenizes every sequence and aggregates the results.
// VocabUsage is the percentage of vocabSize symbols used at least once.
// loc may be nil to skip motif preservation. top bounds TopTokens.
func TokenStats(seqs []string, tok Tokenizer, vocabSize int, loc *motif.Locator, top int) (Stats, error) {
	st := Stats{Sequences: len(seqs)}
	counts := make(map[string]int)
	if loc != nil {
		st.Motifs = &Preservation{}
		st.Motifs.finish()
	}
	for i, s := range seqs {
		toks, err := tok.Tokens(s)
		if err != nil {
			return Stats{}, fmt.Errorf("sequence %d: %w", i, err)
		}
		st.Tokens += len(toks)
		st.Characters += len(baseSymbols(toks))
		for _, t := range toks {
			if t == model.UnknownSymbol {
				st.Unknown++
			}
			counts[t]++
		}
		if loc != nil {
			st.Motifs.add(MotifPreservation(toks, loc))
		}
	}

	st.Distinct = len(counts)
	if st.Sequences > 0 {
		st.AvgTokensPerSeq = float64(st.Tokens) / float64(st.Sequences)
	}
	if st.Tokens > 0 {
		st.CompressionRatio = float64(st.Characters) / float64(st.Tokens)
	}
	if vocabSize > 0 {
		used := st.Distinct
		if _, ok := counts[model.UnknownSymbol]; ok {
			used--
		}
		st.VocabUsage = 100 * float64(used) / float64(vocabSize)
	}
	st.TopTokens = topTokens(counts, top)
	return st, nil
}

// topTokens returns the n most frequent tokens, ties by token.
func topTokens(counts map[string]int, n int) []TokenCount {
	if n <= 0 {
		return nil
	}
	out := make([]TokenCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TokenCount{Token: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
