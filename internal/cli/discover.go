package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/motif"
	"github.com/rcliao/motifbpe/internal/seqio"
)

func init() {
	def := motif.DefaultDiscoverOptions()
	cmd := &cobra.Command{
		Use:   "discover [files...]",
		Short: "Find frequent k-mers not yet in the catalogue",
		Long:  "Count k-mers in a corpus and report frequent ones as candidate custom motifs. Reads stdin when no file is given.",
		Run:   runDiscover,
	}

	cmd.Flags().Int("min-len", def.MinLen, "Shortest k-mer")
	cmd.Flags().Int("max-len", def.MaxLen, "Longest k-mer")
	cmd.Flags().Int("min-freq", def.MinFreq, "Minimum occurrences")
	cmd.Flags().IntP("limit", "l", 20, "Max candidates (0 for all)")
	cmd.Flags().Bool("save", false, "Add the candidates to the catalogue")

	RootCmd.AddCommand(cmd)
}

func runDiscover(cmd *cobra.Command, args []string) {
	var opts motif.DiscoverOptions
	opts.MinLen, _ = cmd.Flags().GetInt("min-len")
	opts.MaxLen, _ = cmd.Flags().GetInt("max-len")
	opts.MinFreq, _ = cmd.Flags().GetInt("min-freq")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	save, _ := cmd.Flags().GetBool("save")

	if len(args) == 0 {
		args = []string{"-"}
	}
	recs, err := seqio.ReadFiles(args)
	if err != nil {
		exitErr("read corpus", err)
	}
	a, err := loadConfig().NewAlphabet()
	if err != nil {
		exitErr("config", err)
	}

	s := mustStore()
	defer s.Close()

	existing, err := s.List(cmd.Context())
	if err != nil {
		exitErr("list motifs", err)
	}
	found := motif.Discover(seqio.Sequences(recs), existing, a, opts)

	if save && len(found) > 0 {
		motifs := make([]model.Motif, len(found))
		for i, d := range found {
			motifs[i] = d.Motif
		}
		n, warnings, err := s.Import(cmd.Context(), motifs)
		if err != nil {
			exitErr("save motifs", err)
		}
		for _, w := range warnings {
			warnf("%v", w)
		}
		newLogger().Info("discovered motifs saved", "count", n)
	}
	printJSON(found)
}
