// Package tokenizer is the public face of the motif-aware BPE core: train a
// model, encode and decode with it, and reload scoring weights.
package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/config"
	"github.com/rcliao/motifbpe/internal/encoder"
	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
	"github.com/rcliao/motifbpe/internal/scoring"
	"github.com/rcliao/motifbpe/internal/trainer"
)

// ErrNoModel is returned by Encode and Decode before a model is trained or
// installed.
var ErrNoModel = errors.New("no trained model")

// MotifSource lists the motifs to honor during training. Both the in-memory
// catalogue and the SQLite store implement it.
type MotifSource interface {
	List(ctx context.Context) ([]model.Motif, error)
}

// Options tune a Tokenizer.
type Options struct {
	Logger  *slog.Logger
	OnRound func(trainer.RoundInfo)
}

// Tokenizer owns the configuration, the scorer whose weights ReloadConfig
// swaps, and the current model. Encode and Decode may run concurrently with
// each other and with ReloadConfig.
type Tokenizer struct {
	src    config.Source
	motifs MotifSource
	opts   Options
	log    *slog.Logger

	cfg    config.Config
	alpha  *alphabet.Alphabet
	scorer *scoring.Scorer

	mu      sync.RWMutex
	model   *model.Model
	enc     *encoder.Encoder
	entropy *ulid.MonotonicEntropy
}

// New loads the configuration from src. The alphabet and mode are fixed
// for the life of the Tokenizer.
func New(src config.Source, motifs MotifSource, opts Options) (*Tokenizer, error) {
	cfg, err := src.Load()
	if err != nil {
		return nil, err
	}
	a, err := cfg.NewAlphabet()
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tokenizer{
		src:     src,
		motifs:  motifs,
		opts:    opts,
		log:     log,
		cfg:     cfg,
		alpha:   a,
		scorer:  scoring.NewScorer(cfg.Weights()),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}, nil
}

// Config returns the configuration loaded at construction, with the
// weights currently in effect.
func (t *Tokenizer) Config() config.Config {
	c := t.cfg
	w := t.scorer.Snapshot()
	c.MotifWeight, c.PenaltyWeight = w.MotifWeight, w.PenaltyWeight
	return c
}

// Alphabet returns the declared alphabet.
func (t *Tokenizer) Alphabet() *alphabet.Alphabet { return t.alpha }

// Locator snapshots the motif source for the declared alphabet.
func (t *Tokenizer) Locator(ctx context.Context) (*motif.Locator, error) {
	var motifs []model.Motif
	if t.motifs != nil {
		var err error
		motifs, err = t.motifs.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list motifs: %w", err)
		}
	}
	loc := motif.NewLocator(motifs, t.alpha)
	if skipped := loc.Skipped(); len(skipped) > 0 {
		t.log.Warn("motifs outside the alphabet are ignored", "alphabet", t.alpha.Name(), "motifs", skipped)
	}
	return loc, nil
}

// Train learns a model from seqs and installs it. When ctx is canceled
// between rounds the partial model is returned with the error and is not
// installed.
func (t *Tokenizer) Train(ctx context.Context, seqs []string, vocabSize, minFreq int) (*model.Model, error) {
	loc, err := t.Locator(ctx)
	if err != nil {
		return nil, err
	}
	tr := trainer.New(t.alpha, loc, t.scorer, trainer.Options{
		Workers: t.cfg.Workers,
		Lenient: t.cfg.Lenient(),
		Logger:  t.log,
		OnRound: t.opts.OnRound,
	})
	res, trainErr := tr.Train(ctx, seqs, vocabSize, minFreq)
	if res == nil {
		return nil, trainErr
	}

	m := &model.Model{
		ID:        t.newID(),
		CreatedAt: time.Now().UTC(),
		Alphabet:  t.alpha.Name(),
		Symbols:   t.alpha.String(),
		Wildcard:  t.cfg.Wildcard,
		Lenient:   t.cfg.Lenient(),
		VocabSize: vocabSize,
		MinFreq:   minFreq,
		Weights:   res.Weights,
		Stop:      string(res.Stop),
		Merges:    res.Merges,
		Vocab:     res.Vocab,
	}
	if trainErr != nil {
		return m, trainErr
	}
	if err := t.UseModel(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (t *Tokenizer) newID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), t.entropy).String()
}

// UseModel installs a previously trained model.
func (t *Tokenizer) UseModel(m *model.Model) error {
	enc, err := encoder.New(m, encoder.Options{CacheSize: t.cfg.CacheSize})
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.model, t.enc = m, enc
	t.mu.Unlock()
	return nil
}

// Model returns the installed model, or nil.
func (t *Tokenizer) Model() *model.Model {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.model
}

func (t *Tokenizer) current() (*encoder.Encoder, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.enc == nil {
		return nil, ErrNoModel
	}
	return t.enc, nil
}

// Encode returns the token ids of seq under the installed model.
func (t *Tokenizer) Encode(seq string) ([]int, error) {
	enc, err := t.current()
	if err != nil {
		return nil, err
	}
	return enc.Encode(seq)
}

// Tokens returns the token strings of seq under the installed model.
func (t *Tokenizer) Tokens(seq string) ([]string, error) {
	enc, err := t.current()
	if err != nil {
		return nil, err
	}
	return enc.Tokens(seq)
}

// Decode maps ids back to a sequence under the installed model.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	enc, err := t.current()
	if err != nil {
		return "", err
	}
	return enc.Decode(ids), nil
}

// ReloadConfig re-reads the configuration source and swaps the scoring
// weights for every later round, including rounds of a training run in
// progress. Other changed fields are logged and ignored.
func (t *Tokenizer) ReloadConfig() error {
	cfg, err := t.src.Load()
	if err != nil {
		return err
	}
	w := cfg.Weights()
	if err := config.ValidateWeights(w); err != nil {
		return err
	}
	if cfg.Alphabet != t.cfg.Alphabet || cfg.Symbols != t.cfg.Symbols || cfg.Mode != t.cfg.Mode {
		t.log.Warn("alphabet and mode changes need a new tokenizer; only weights were reloaded",
			"alphabet", cfg.Alphabet, "mode", cfg.Mode)
	}
	prev := t.scorer.Swap(w)
	t.log.Info("weights reloaded",
		"motif_weight", w.MotifWeight, "penalty_weight", w.PenaltyWeight,
		"previous_motif_weight", prev.MotifWeight, "previous_penalty_weight", prev.PenaltyWeight)
	return nil
}
