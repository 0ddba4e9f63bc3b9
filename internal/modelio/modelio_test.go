package modelio

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/rcliao/motifbpe/internal/model"
)

func sampleModel() *model.Model {
	v := model.NewVocabulary()
	for _, s := range []string{"A", "C", "G", "U", "AU", "AUG"} {
		v.Add(s)
	}
	return &model.Model{
		ID:        "01HZX0000000000000000000AB",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Alphabet:  "rna",
		Symbols:   "ACGU",
		Wildcard:  "N",
		VocabSize: 6,
		MinFreq:   2,
		Weights:   model.Weights{MotifWeight: 2.5, PenaltyWeight: 10},
		Merges: []model.MergeRule{
			{Rank: 0, Left: "A", Right: "U", Result: "AU"},
			{Rank: 1, Left: "AU", Right: "G", Result: "AUG"},
		},
		Vocab: v,
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "model.json")
	want := sampleModel()
	if err := SaveFile(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != want.ID || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("header mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Merges, want.Merges) {
		t.Errorf("merges mismatch: %v", got.Merges)
	}
	if !reflect.DeepEqual(got.Vocab.Tokens(), want.Vocab.Tokens()) {
		t.Errorf("vocab mismatch: %v", got.Vocab.Tokens())
	}
	if id, _ := got.Vocab.ID("AUG"); id != 6 {
		t.Errorf("expected AUG at id 6, got %d", id)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil || !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReadRejectsBrokenModels(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *model.Model)
		want   string
	}{
		{"rank gap", func(m *model.Model) { m.Merges[1].Rank = 5 }, "rank"},
		{"bad result", func(m *model.Model) { m.Merges[0].Result = "UA" }, "is not"},
		{"bad alphabet", func(m *model.Model) { m.Alphabet = "klingon" }, "alphabet"},
		{"missing base", func(m *model.Model) { m.Alphabet, m.Symbols = "custom", "ACGUX" }, "base symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleModel()
			tt.mutate(m)
			var buf bytes.Buffer
			if err := Write(&buf, m); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := Read(&buf)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestReadRejectsVocabularyWithoutUnknown(t *testing.T) {
	_, err := Parse([]byte(`{"alphabet":"rna","vocab":["A","C","G","U"]}`))
	if err == nil {
		t.Fatal("expected error")
	}
}
