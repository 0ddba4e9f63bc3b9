package tokenizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/motifbpe/internal/config"
	"github.com/rcliao/motifbpe/internal/motif"
	"github.com/rcliao/motifbpe/internal/trainer"
)

var corpus = []string{
	"UGAGGUAGUAGGUUGUAUAGUU",
	"UGAGGUAGUAGGUUGUGUGGUU",
	"UAGCUUAUCAGACUGAUGUUGA",
	"UAGCAGCACGUAAAUAUUGGCG",
	"UUAAUGCUAAUCGUGAUAGGGGU",
}

func newTokenizer(t *testing.T, src config.Source, opts Options) *Tokenizer {
	t.Helper()
	tok, err := New(src, motif.NewCatalogue(true), opts)
	if err != nil {
		t.Fatalf("new tokenizer: %v", err)
	}
	return tok
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestTrainEncodeDecode(t *testing.T) {
	tok := newTokenizer(t, config.Static(config.Default()), Options{})
	if _, err := tok.Encode("AUGC"); !errors.Is(err, ErrNoModel) {
		t.Fatalf("expected ErrNoModel, got %v", err)
	}

	m, err := tok.Train(context.Background(), corpus, 30, 2)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if _, err := ulid.Parse(m.ID); err != nil {
		t.Errorf("model id %q is not a ULID: %v", m.ID, err)
	}
	if m.Alphabet != "rna" || m.Symbols != "ACGU" || m.Wildcard != "N" {
		t.Errorf("unexpected model header %+v", m)
	}
	if tok.Model() != m {
		t.Error("trained model not installed")
	}
	if m.Vocab.Size() > 30 {
		t.Errorf("vocabulary %d exceeds target", m.Vocab.Size())
	}

	for _, s := range corpus {
		ids, err := tok.Encode(s)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := tok.Decode(ids)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestTrainReturnsTrainingErrors(t *testing.T) {
	tok := newTokenizer(t, config.Static(config.Default()), Options{})
	if _, err := tok.Train(context.Background(), nil, 10, 1); !trainer.IsTrainingError(err) {
		t.Errorf("expected training error, got %v", err)
	}
	if tok.Model() != nil {
		t.Error("failed training must not install a model")
	}
}

func TestCanceledTrainingIsNotInstalled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tok := newTokenizer(t, config.Static(config.Default()), Options{
		OnRound: func(trainer.RoundInfo) { cancel() },
	})
	m, err := tok.Train(ctx, corpus, 50, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if m == nil || len(m.Merges) != 1 {
		t.Fatalf("expected a partial model with one merge, got %+v", m)
	}
	if tok.Model() != nil {
		t.Error("partial model must not be installed")
	}
}

func TestReloadConfigSwapsWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "motif_weight: 2.5\npenalty_weight: 10\n")
	tok := newTokenizer(t, config.FileSource{Path: path}, Options{})

	writeConfig(t, path, "motif_weight: 7\npenalty_weight: 0.5\n")
	if err := tok.ReloadConfig(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	c := tok.Config()
	if c.MotifWeight != 7 || c.PenaltyWeight != 0.5 {
		t.Errorf("expected reloaded weights, got %v/%v", c.MotifWeight, c.PenaltyWeight)
	}

	m, err := tok.Train(context.Background(), corpus, 10, 1)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if m.Weights.MotifWeight != 7 {
		t.Errorf("expected training to use the reloaded weight, got %v", m.Weights.MotifWeight)
	}
}

func TestReloadConfigRejectsBadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "motif_weight: 2.5\npenalty_weight: 10\n")
	tok := newTokenizer(t, config.FileSource{Path: path}, Options{})

	writeConfig(t, path, "motif_weight: -1\npenalty_weight: 10\n")
	err := tok.ReloadConfig()
	var ce *config.Error
	if !errors.As(err, &ce) || ce.Field != "motif_weight" {
		t.Fatalf("expected motif_weight config error, got %v", err)
	}
	if got := tok.Config().MotifWeight; got != 2.5 {
		t.Errorf("weights changed after a failed reload: %v", got)
	}
}

func TestReloadDuringTrainingAppliesToLaterRounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "motif_weight: 2.5\npenalty_weight: 10\n")

	var tok *Tokenizer
	rounds := 0
	tok = newTokenizer(t, config.FileSource{Path: path}, Options{
		OnRound: func(trainer.RoundInfo) {
			rounds++
			if rounds == 1 {
				writeConfig(t, path, "motif_weight: 4\npenalty_weight: 10\n")
				if err := tok.ReloadConfig(); err != nil {
					t.Errorf("reload: %v", err)
				}
			}
		},
	})
	m, err := tok.Train(context.Background(), corpus, 12, 1)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if rounds < 2 {
		t.Fatalf("expected several rounds, got %d", rounds)
	}
	if m.Weights.MotifWeight != 4 {
		t.Errorf("expected later rounds to use 4, got %v", m.Weights.MotifWeight)
	}
}

func TestUseModelInstallsEncoder(t *testing.T) {
	a := newTokenizer(t, config.Static(config.Default()), Options{})
	m, err := a.Train(context.Background(), corpus, 20, 2)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	b := newTokenizer(t, config.Static(config.Default()), Options{})
	if err := b.UseModel(m); err != nil {
		t.Fatalf("use model: %v", err)
	}
	want, _ := a.Encode(corpus[0])
	got, _ := b.Encode(corpus[0])
	if len(want) == 0 || len(got) != len(want) {
		t.Fatalf("encoders disagree: %v vs %v", want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("encoders disagree: %v vs %v", want, got)
		}
	}
}
