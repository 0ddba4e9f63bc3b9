package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/motifbpe/internal/modelio"
	"github.com/rcliao/motifbpe/internal/seqio"
	"github.com/rcliao/motifbpe/internal/tokenizer"
)

func init() {
	cmd := &cobra.Command{
		Use:   "train [files...]",
		Short: "Train a vocabulary",
		Long: "Train a motif-aware BPE vocabulary from FASTA or one-sequence-per-line corpora. " +
			"Reads stdin when no file is given. Send SIGHUP to reload the scoring weights from the config file mid-run.",
		Run: runTrain,
	}

	cmd.Flags().Int("vocab-size", 0, "Target vocabulary size (default: config vocab_size)")
	cmd.Flags().Int("min-freq", 0, "Minimum pair frequency (default: config min_freq)")
	cmd.Flags().StringP("out", "o", "", "Also write the model as JSON to this path")
	cmd.Flags().Bool("no-save", false, "Do not store the model in the database")

	RootCmd.AddCommand(cmd)
}

type trainSummary struct {
	ID            string  `json:"id"`
	Alphabet      string  `json:"alphabet"`
	Sequences     int     `json:"sequences"`
	VocabSize     int     `json:"vocab_size"`
	Merges        int     `json:"merges"`
	Stop          string  `json:"stop"`
	MotifWeight   float64 `json:"motif_weight"`
	PenaltyWeight float64 `json:"penalty_weight"`
	Saved         bool    `json:"saved"`
	Out           string  `json:"out,omitempty"`
}

func runTrain(cmd *cobra.Command, args []string) {
	vocabSize, _ := cmd.Flags().GetInt("vocab-size")
	minFreq, _ := cmd.Flags().GetInt("min-freq")
	out, _ := cmd.Flags().GetString("out")
	noSave, _ := cmd.Flags().GetBool("no-save")

	if len(args) == 0 {
		args = []string{"-"}
	}
	recs, err := seqio.ReadFiles(args)
	if err != nil {
		exitErr("read corpus", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	src, fromFile := configSource()
	log := newLogger()
	tok, err := tokenizer.New(src, s, tokenizer.Options{Logger: log})
	if err != nil {
		exitErr("config", err)
	}
	cfg := tok.Config()
	if vocabSize == 0 {
		vocabSize = cfg.VocabSize
	}
	if minFreq == 0 {
		minFreq = cfg.MinFreq
	}

	if fromFile {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		go func() {
			for range hup {
				if err := tok.ReloadConfig(); err != nil {
					warnf("reload config: %v", err)
				}
			}
		}()
	}

	m, err := tok.Train(cmd.Context(), seqio.Sequences(recs), vocabSize, minFreq)
	if err != nil {
		if m != nil {
			warnf("training stopped after %d merges; model not saved", len(m.Merges))
		}
		exitErr("train", err)
	}

	sum := trainSummary{
		ID:            m.ID,
		Alphabet:      m.Alphabet,
		Sequences:     len(recs),
		VocabSize:     m.Vocab.Size(),
		Merges:        len(m.Merges),
		Stop:          m.Stop,
		MotifWeight:   m.Weights.MotifWeight,
		PenaltyWeight: m.Weights.PenaltyWeight,
	}
	if !noSave {
		if err := s.SaveModel(cmd.Context(), m); err != nil {
			exitErr("save model", err)
		}
		sum.Saved = true
	}
	if out != "" {
		if err := modelio.SaveFile(out, m); err != nil {
			exitErr("write model", err)
		}
		sum.Out = out
	}
	printJSON(sum)
}
