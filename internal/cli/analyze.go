package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/motifbpe/internal/alphabet"
	"github.com/rcliao/motifbpe/internal/analysis"
	"github.com/rcliao/motifbpe/internal/motif"
	"github.com/rcliao/motifbpe/internal/seqio"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Token statistics of a corpus under a model",
		Long:  "Tokenize a corpus and report compression ratio, vocabulary usage and motif preservation. Reads stdin when no file is given.",
		Run:   runAnalyze,
	}
	addModelFlags(cmd)
	cmd.Flags().Int("top", 10, "Number of most frequent tokens to report")
	cmd.Flags().Bool("no-motifs", false, "Skip motif preservation")

	RootCmd.AddCommand(cmd)
}

type analyzeReport struct {
	Model string `json:"model"`
	analysis.Stats
}

func runAnalyze(cmd *cobra.Command, args []string) {
	top, _ := cmd.Flags().GetInt("top")
	noMotifs, _ := cmd.Flags().GetBool("no-motifs")

	if len(args) == 0 {
		args = []string{"-"}
	}
	recs, err := seqio.ReadFiles(args)
	if err != nil {
		exitErr("read corpus", err)
	}

	tok, s := loadTokenizer(cmd)
	defer s.Close()
	m := tok.Model()

	var loc *motif.Locator
	if !noMotifs {
		a, err := alphabet.New(m.Alphabet, m.Symbols)
		if err != nil {
			exitErr("model alphabet", err)
		}
		motifs, err := s.List(cmd.Context())
		if err != nil {
			exitErr("list motifs", err)
		}
		loc = motif.NewLocator(motifs, a)
	}

	st, err := analysis.TokenStats(seqio.Sequences(recs), tok, m.Vocab.Size(), loc, top)
	if err != nil {
		exitErr("analyze", err)
	}
	printJSON(analyzeReport{Model: m.ID, Stats: st})
}
