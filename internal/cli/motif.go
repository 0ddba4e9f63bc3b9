package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "motif",
		Short: "Manage the motif catalogue",
	}

	add := &cobra.Command{
		Use:   "add [name] [pattern]",
		Short: "Add or update a custom motif",
		Args:  cobra.ExactArgs(2),
		Run:   runMotifAdd,
	}
	add.Flags().String("category", string(model.CategoryCustom), "Category: seed, conserved, custom")
	add.Flags().Float64("weight", 0, "Per-motif weight (default: global motif_weight)")

	get := &cobra.Command{
		Use:   "get [name]",
		Short: "Show a motif",
		Args:  cobra.ExactArgs(1),
		Run:   runMotifGet,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List motifs, core and custom",
		Run:   runMotifList,
	}
	list.Flags().String("category", "", "Filter by category")

	rm := &cobra.Command{
		Use:   "rm [name]",
		Short: "Remove a custom motif",
		Args:  cobra.ExactArgs(1),
		Run:   runMotifRm,
	}

	imp := &cobra.Command{
		Use:   "import [file]",
		Short: "Import motifs from a CSV table",
		Long:  "Import motifs from a name,pattern,category,weight table. Reads stdin when no file is given. Bad rows are skipped with a warning.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runMotifImport,
	}

	exp := &cobra.Command{
		Use:   "export",
		Short: "Export custom motifs as a CSV table",
		Run:   runMotifExport,
	}
	exp.Flags().Bool("json", false, "Export as JSON")
	exp.Flags().String("category", "", "Filter by category (JSON only)")

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search motifs by name or pattern",
		Args:  cobra.MaximumNArgs(1),
		Run:   runMotifSearch,
	}
	search.Flags().String("in", "", "Only motifs occurring in this sequence")
	search.Flags().String("category", "", "Filter by category")
	search.Flags().IntP("limit", "l", 20, "Max results")

	cmd.AddCommand(add, get, list, rm, imp, exp, search)
	RootCmd.AddCommand(cmd)
}

func categoryFlag(cmd *cobra.Command) model.Category {
	s, _ := cmd.Flags().GetString("category")
	if s == "" {
		return ""
	}
	c, err := model.ParseCategory(s)
	if err != nil {
		exitErr("category", err)
	}
	return c
}

func mustStore() *store.SQLiteStore {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	return s
}

func runMotifAdd(cmd *cobra.Command, args []string) {
	m := model.Motif{Name: args[0], Pattern: args[1], Category: categoryFlag(cmd)}
	if cmd.Flags().Changed("weight") {
		w, _ := cmd.Flags().GetFloat64("weight")
		m.Weight = &w
	}

	s := mustStore()
	defer s.Close()

	saved, err := s.Upsert(cmd.Context(), m)
	if err != nil {
		exitErr("add motif", err)
	}
	printJSON(saved)
}

func runMotifGet(cmd *cobra.Command, args []string) {
	s := mustStore()
	defer s.Close()

	m, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get motif", err)
	}
	printJSON(m)
}

func runMotifList(cmd *cobra.Command, args []string) {
	cat := categoryFlag(cmd)

	s := mustStore()
	defer s.Close()

	all, err := s.List(cmd.Context())
	if err != nil {
		exitErr("list motifs", err)
	}
	out := make([]model.Motif, 0, len(all))
	for _, m := range all {
		if cat == "" || m.Category == cat {
			out = append(out, m)
		}
	}
	printJSON(out)
}

func runMotifRm(cmd *cobra.Command, args []string) {
	s := mustStore()
	defer s.Close()

	if err := s.Remove(cmd.Context(), args[0]); err != nil {
		exitErr("remove motif", err)
	}
	printJSON(map[string]string{"removed": args[0]})
}

func runMotifImport(cmd *cobra.Command, args []string) {
	in := os.Stdin
	if len(args) == 1 && args[0] != "-" {
		fh, err := os.Open(args[0])
		if err != nil {
			exitErr("open table", err)
		}
		defer fh.Close()
		in = fh
	}

	s := mustStore()
	defer s.Close()

	warnings, err := s.Load(cmd.Context(), in)
	if err != nil {
		exitErr("import", err)
	}
	for _, w := range warnings {
		warnf("%v", w)
	}
	custom, err := s.ExportAll(cmd.Context(), "")
	if err != nil {
		exitErr("import", err)
	}
	printJSON(map[string]int{"skipped": len(warnings), "custom_motifs": len(custom)})
}

func runMotifExport(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")

	s := mustStore()
	defer s.Close()

	if !asJSON {
		if err := s.Save(cmd.Context(), os.Stdout); err != nil {
			exitErr("export", err)
		}
		return
	}
	motifs, err := s.ExportAll(cmd.Context(), categoryFlag(cmd))
	if err != nil {
		exitErr("export", err)
	}
	printJSON(motifs)
}

func runMotifSearch(cmd *cobra.Command, args []string) {
	in, _ := cmd.Flags().GetString("in")
	limit, _ := cmd.Flags().GetInt("limit")

	var query string
	if len(args) == 1 {
		query = args[0]
	}
	if query == "" && in == "" {
		exitErr("search", fmt.Errorf("a query or --in sequence is required"))
	}

	s := mustStore()
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:    query,
		Sequence: in,
		Category: categoryFlag(cmd),
		Limit:    limit,
	})
	if err != nil {
		exitErr("search", err)
	}
	printJSON(results)
}
