package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseRequiredFields(t *testing.T) {
	_, err := Parse([]byte("penalty_weight: 1\n"))
	var ce *Error
	if !errors.As(err, &ce) || ce.Field != "motif_weight" {
		t.Fatalf("expected missing motif_weight, got %v", err)
	}

	_, err = Parse([]byte("motif_weight: 1\n"))
	if !errors.As(err, &ce) || ce.Field != "penalty_weight" {
		t.Fatalf("expected missing penalty_weight, got %v", err)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []string{
		"motif_weight: 0\npenalty_weight: 1\n",
		"motif_weight: -2\npenalty_weight: 1\n",
		"motif_weight: 1\npenalty_weight: -0.5\n",
		"motif_weight: abc\npenalty_weight: 1\n",
		"motif_weight: 1\npenalty_weight: 1\nmode: sloppy\n",
		"motif_weight: 1\npenalty_weight: 1\nwildcard: A\n",
	}
	for _, c := range cases {
		_, err := Parse([]byte(c))
		var ce *Error
		if !errors.As(err, &ce) {
			t.Errorf("expected config error for %q, got %v", c, err)
		}
	}
}

func TestParseDefaultsAndOverrides(t *testing.T) {
	c, err := Parse([]byte(`
motif_weight: 4
penalty_weight: 0
alphabet: protein
mode: lenient
vocab_size: 64
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.MotifWeight != 4 || c.PenaltyWeight != 0 {
		t.Errorf("unexpected weights %+v", c.Weights())
	}
	if c.Wildcard != "X" {
		t.Errorf("expected protein wildcard X, got %q", c.Wildcard)
	}
	if !c.Lenient() {
		t.Error("expected lenient mode")
	}
	if c.VocabSize != 64 || c.MinFreq != DefaultMinFreq {
		t.Errorf("unexpected sizes vocab=%d min_freq=%d", c.VocabSize, c.MinFreq)
	}
}

func TestFileSourceRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motifbpe.yaml")
	if err := os.WriteFile(path, []byte("motif_weight: 1\npenalty_weight: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := FileSource{Path: path}
	c, err := src.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.PenaltyWeight != 2 {
		t.Errorf("expected 2, got %v", c.PenaltyWeight)
	}

	os.WriteFile(path, []byte("motif_weight: 1\npenalty_weight: 7\n"), 0o644)
	c, _ = src.Load()
	if c.PenaltyWeight != 7 {
		t.Errorf("expected 7 after rewrite, got %v", c.PenaltyWeight)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
