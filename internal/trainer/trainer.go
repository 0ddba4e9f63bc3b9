// Package trainer drives the motif-aware merge loop that builds a
// vocabulary and its ordered merge rules.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/corpus"
	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
	"github.com/rcliao/motifbpe/internal/pairstats"
	"github.com/rcliao/motifbpe/internal/parallel"
	"github.com/rcliao/motifbpe/internal/scoring"
)

// State is the trainer lifecycle state.
type State int

const (
	Idle State = iota
	Initialized
	Merging
	Converged
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initialized:
		return "initialized"
	case Merging:
		return "merging"
	case Converged:
		return "converged"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Error is a training error raised before any round runs.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "training: " + e.Reason
}

// ErrConverged is returned when Train is called on a trainer that already
// ran. Call Reset first.
var ErrConverged = &Error{Reason: "trainer already converged; reset before training again"}

// StopReason says why the merge loop ended.
type StopReason string

const (
	StopVocabSize StopReason = "vocab_size"
	StopMinFreq   StopReason = "min_freq"
	StopNoPairs   StopReason = "no_pairs"
	StopCanceled  StopReason = "canceled"
)

// RoundInfo describes one completed merge round.
type RoundInfo struct {
	Rule      model.MergeRule `json:"rule"`
	Freq      int             `json:"freq"`
	Score     float64         `json:"score"`
	Tally     scoring.Tally   `json:"tally"`
	Affected  int             `json:"affected"`
	VocabSize int             `json:"vocab_size"`
}

// Options tune a trainer.
type Options struct {
	// Workers bounds per-round parallelism; < 1 means one per CPU.
	Workers int
	// Lenient maps characters outside the alphabet to model.UnknownSymbol
	// instead of failing.
	Lenient bool
	Logger  *slog.Logger
	// OnRound, when set, is called after every merge round.
	OnRound func(RoundInfo)
}

// Result is the trained vocabulary and merge list.
type Result struct {
	Vocab  *model.Vocabulary `json:"vocab"`
	Merges []model.MergeRule `json:"merges"`
	Stop   StopReason        `json:"stop"`
	// Weights are the scoring weights of the last round.
	Weights model.Weights `json:"weights"`
}

// Trainer runs one training session. Rounds are sequential; the work inside
// a round is spread over worker goroutines and joined before selection.
type Trainer struct {
	alpha   *alphabet.Alphabet
	locator *motif.Locator
	scorer  *scoring.Scorer
	opts    Options
	log     *slog.Logger

	state State

	// Session state, discarded once the trainer converges.
	corpus     *corpus.Corpus
	stats      *pairstats.Engine
	spans      [][]model.Span
	seqTallies []scoring.Tallies
	tallies    scoring.Tallies
	tallyW     model.Weights
}

// New returns an idle trainer.
func New(a *alphabet.Alphabet, locator *motif.Locator, scorer *scoring.Scorer, opts Options) *Trainer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Trainer{
		alpha:   a,
		locator: locator,
		scorer:  scorer,
		opts:    opts,
		log:     log,
	}
}

// State returns the current lifecycle state.
func (t *Trainer) State() State { return t.state }

// Reset discards any session and returns the trainer to Idle.
func (t *Trainer) Reset() {
	t.release()
	t.state = Idle
}

func (t *Trainer) release() {
	t.corpus = nil
	t.stats = nil
	t.spans = nil
	t.seqTallies = nil
	t.tallies = nil
}

// Train learns merges from seqs until the vocabulary holds vocabSize
// symbols, no pair reaches minFreq, or no pairs remain. A canceled ctx is
// honored between rounds: the merges learned so far are returned together
// with the context error.
func (t *Trainer) Train(ctx context.Context, seqs []string, vocabSize, minFreq int) (*Result, error) {
	if t.state != Idle {
		return nil, ErrConverged
	}
	if len(seqs) == 0 {
		return nil, &Error{Reason: "empty corpus"}
	}
	if vocabSize <= 0 {
		return nil, &Error{Reason: fmt.Sprintf("vocab_size must be positive, got %d", vocabSize)}
	}
	if minFreq < 1 {
		minFreq = 1
	}

	c, err := corpus.New(seqs, t.alpha, t.opts.Lenient)
	if err != nil {
		return nil, err
	}

	vocab := model.NewVocabulary()
	for _, s := range t.alpha.Symbols() {
		vocab.Add(s)
	}

	t.initialize(c)
	defer func() {
		t.release()
		t.state = Converged
	}()

	t.log.Info("training started",
		"sequences", c.Len(), "symbols", c.Symbols(), "pairs", t.stats.Len(),
		"motifs", len(t.locator.Motifs()), "vocab_size", vocabSize, "min_freq", minFreq)

	res := &Result{Vocab: vocab}
	for {
		if vocab.Size() >= vocabSize {
			res.Stop = StopVocabSize
			break
		}
		if err := ctx.Err(); err != nil {
			res.Stop = StopCanceled
			t.log.Warn("training canceled", "merges", len(res.Merges))
			return res, fmt.Errorf("train: %w", err)
		}
		if t.stats.Len() == 0 {
			res.Stop = StopNoPairs
			break
		}
		cands := t.stats.Candidates(minFreq)
		if len(cands) == 0 {
			res.Stop = StopMinFreq
			break
		}

		w := t.scorer.Snapshot()
		res.Weights = w
		if w != t.tallyW {
			t.retallyAll(w)
		}
		best, _ := scoring.Select(cands, t.tallies, w, t.opts.Workers)

		t.state = Merging
		rule := model.MergeRule{
			Rank:   len(res.Merges),
			Left:   best.Pair.Left,
			Right:  best.Pair.Right,
			Result: best.Pair.Merged(),
		}
		res.Merges = append(res.Merges, rule)
		vocab.Add(rule.Result)

		affected := t.stats.ApplyMerge(t.corpus, best.Pair)
		t.refresh(affected, w)

		info := RoundInfo{
			Rule:      rule,
			Freq:      best.Freq,
			Score:     best.Score,
			Tally:     best.Tally,
			Affected:  len(affected),
			VocabSize: vocab.Size(),
		}
		t.log.Debug("merge",
			"rank", rule.Rank, "left", rule.Left, "right", rule.Right,
			"freq", best.Freq, "score", best.Score,
			"inside", best.Tally.Inside, "straddle", best.Tally.Straddle)
		if t.opts.OnRound != nil {
			t.opts.OnRound(info)
		}
	}

	t.log.Info("training converged", "stop", string(res.Stop), "merges", len(res.Merges), "vocab", vocab.Size())
	return res, nil
}

// initialize moves Idle -> Initialized: pair counts and spans for every
// instance.
func (t *Trainer) initialize(c *corpus.Corpus) {
	t.corpus = c
	t.stats = pairstats.New(c, t.opts.Workers)
	t.spans = make([][]model.Span, c.Len())
	t.seqTallies = make([]scoring.Tallies, c.Len())
	parallel.For(c.Len(), t.opts.Workers, func(i int) {
		t.spans[i] = t.locator.FindSpans(i, c.Instances[i].Symbols)
	})
	t.retallyAll(t.scorer.Snapshot())
	t.state = Initialized
}

func (t *Trainer) weightFn(w model.Weights) func(string) float64 {
	return func(name string) float64 { return t.locator.Weight(name, w.MotifWeight) }
}

// retallyAll rebuilds every per-instance tally under w.
func (t *Trainer) retallyAll(w model.Weights) {
	weight := t.weightFn(w)
	parallel.For(t.corpus.Len(), t.opts.Workers, func(i int) {
		t.seqTallies[i] = scoring.TallySequence(t.corpus.Instances[i].Symbols, t.spans[i], weight)
	})
	t.tallies = make(scoring.Tallies)
	for _, ts := range t.seqTallies {
		t.tallies.Add(ts)
	}
	t.tallyW = w
}

// refresh recomputes spans and tallies of the instances a merge touched.
func (t *Trainer) refresh(affected []int, w model.Weights) {
	weight := t.weightFn(w)
	fresh := make([]scoring.Tallies, len(affected))
	parallel.For(len(affected), t.opts.Workers, func(k int) {
		i := affected[k]
		syms := t.corpus.Instances[i].Symbols
		t.spans[i] = t.locator.FindSpans(i, syms)
		fresh[k] = scoring.TallySequence(syms, t.spans[i], weight)
	})
	for k, i := range affected {
		t.tallies.Sub(t.seqTallies[i])
		t.tallies.Add(fresh[k])
		t.seqTallies[i] = fresh[k]
	}
}

// IsTrainingError reports whether err is a *Error.
func IsTrainingError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
