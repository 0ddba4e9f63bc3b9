package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
)

type fakeTokenizer map[string][]string

func (f fakeTokenizer) Tokens(seq string) ([]string, error) {
	toks, ok := f[seq]
	if !ok {
		return nil, errors.New("unknown sequence")
	}
	return toks, nil
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func boxLocator() *motif.Locator {
	return motif.NewLocator([]model.Motif{{Name: "box", Pattern: "AUGC", Category: model.CategorySeed}}, nil)
}

func TestCompressionRatio(t *testing.T) {
	if got := CompressionRatio("AUGCAU", []string{"AUGC", "AU"}); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
	if got := CompressionRatio("AUGC", nil); got != 0 {
		t.Errorf("expected 0 for no tokens, got %v", got)
	}
}

func TestMotifPreservation(t *testing.T) {
	loc := boxLocator()
	kept := MotifPreservation([]string{"G", "AUGC", "AUGC"}, loc)
	if kept.Occurrences != 2 || kept.Preserved != 2 || kept.Percent != 100 {
		t.Errorf("expected both kept, got %+v", kept)
	}
	split := MotifPreservation([]string{"GA", "UGC", "AU", "GC"}, loc)
	if split.Occurrences != 2 || split.Preserved != 1 || split.Percent != 50 {
		t.Errorf("expected one of two kept, got %+v", split)
	}
	none := MotifPreservation([]string{"GGG"}, loc)
	if none.Occurrences != 0 || none.Percent != 100 {
		t.Errorf("expected 100%% with no occurrences, got %+v", none)
	}
}

func TestTokenStats(t *testing.T) {
	tok := fakeTokenizer{
		"AUGCAU": {"AUGC", "AU"},
		"GAUGC":  {"GA", "U", "GC"},
		"ANU":    {"A", model.UnknownSymbol, "U"},
	}
	st, err := TokenStats([]string{"AUGCAU", "GAUGC", "ANU"}, tok, 10, boxLocator(), 2)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Sequences != 3 || st.Tokens != 8 || st.Characters != 14 {
		t.Errorf("unexpected totals %+v", st)
	}
	if st.Unknown != 1 {
		t.Errorf("expected one unknown token, got %d", st.Unknown)
	}
	// AUGC AU GA U GC A <unk>; <unk> does not count toward usage.
	if st.Distinct != 7 || !near(st.VocabUsage, 60) {
		t.Errorf("unexpected distinct %d usage %v", st.Distinct, st.VocabUsage)
	}
	if !near(st.CompressionRatio, 14.0/8) || !near(st.AvgTokensPerSeq, 8.0/3) {
		t.Errorf("unexpected ratios %+v", st)
	}
	if st.Motifs == nil || st.Motifs.Occurrences != 2 || st.Motifs.Preserved != 1 {
		t.Errorf("unexpected motif preservation %+v", st.Motifs)
	}
	if len(st.TopTokens) != 2 || st.TopTokens[0] != (TokenCount{Token: "U", Count: 2}) {
		t.Errorf("unexpected top tokens %v", st.TopTokens)
	}
}

func TestTokenStatsPropagatesErrors(t *testing.T) {
	if _, err := TokenStats([]string{"nope"}, fakeTokenizer{}, 10, nil, 0); err == nil {
		t.Error("expected error")
	}
}
