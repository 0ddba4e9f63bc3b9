package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/motifbpe/internal/seqio"
	"github.com/rcliao/motifbpe/internal/store"
	"github.com/rcliao/motifbpe/internal/tokenizer"
)

func init() {
	enc := &cobra.Command{
		Use:   "encode [sequence...]",
		Short: "Encode sequences to token ids",
		Long:  "Encode sequences given as args, or a FASTA/line corpus piped via stdin.",
		Run:   runEncode,
	}
	addModelFlags(enc)
	enc.Flags().Bool("tokens", false, "Print token strings instead of ids")

	dec := &cobra.Command{
		Use:   "decode [id...]",
		Short: "Decode token ids to a sequence",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDecode,
	}
	addModelFlags(dec)

	RootCmd.AddCommand(enc, dec)
}

type encoded struct {
	ID     string   `json:"id,omitempty"`
	IDs    []int    `json:"ids,omitempty"`
	Tokens []string `json:"tokens,omitempty"`
}

// loadTokenizer installs the resolved model into a tokenizer.
func loadTokenizer(cmd *cobra.Command) (*tokenizer.Tokenizer, *store.SQLiteStore) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	m := resolveModel(cmd, s)

	src, _ := configSource()
	tok, err := tokenizer.New(src, s, tokenizer.Options{Logger: newLogger()})
	if err != nil {
		s.Close()
		exitErr("config", err)
	}
	if err := tok.UseModel(m); err != nil {
		s.Close()
		exitErr("load model", err)
	}
	return tok, s
}

func runEncode(cmd *cobra.Command, args []string) {
	asTokens, _ := cmd.Flags().GetBool("tokens")

	var recs []seqio.Record
	if len(args) > 0 {
		for _, a := range args {
			recs = append(recs, seqio.Record{Seq: a})
		}
	} else {
		var err error
		if recs, err = seqio.ReadFile("-"); err != nil {
			exitErr("read stdin", err)
		}
	}

	tok, s := loadTokenizer(cmd)
	defer s.Close()

	out := make([]encoded, 0, len(recs))
	for _, r := range recs {
		e := encoded{ID: r.ID}
		var err error
		if asTokens {
			e.Tokens, err = tok.Tokens(r.Seq)
		} else {
			e.IDs, err = tok.Encode(r.Seq)
		}
		if err != nil {
			exitErr(fmt.Sprintf("encode %s", label(r)), err)
		}
		out = append(out, e)
	}
	printJSON(out)
}

func label(r seqio.Record) string {
	if r.ID != "" {
		return r.ID
	}
	if len(r.Seq) > 20 {
		return r.Seq[:20] + "..."
	}
	return r.Seq
}

func runDecode(cmd *cobra.Command, args []string) {
	var ids []int
	for _, a := range args {
		for _, f := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := strconv.Atoi(f)
			if err != nil {
				exitErr("decode", fmt.Errorf("invalid token id %q", f))
			}
			ids = append(ids, id)
		}
	}

	tok, s := loadTokenizer(cmd)
	defer s.Close()

	seq, err := tok.Decode(ids)
	if err != nil {
		exitErr("decode", err)
	}
	fmt.Println(seq)
}
