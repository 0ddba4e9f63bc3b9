package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List trained models",
		Run:   runModels,
	}
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print a model as JSON",
		Run:   runModelShow,
	}
	addModelFlags(show)

	rm := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a stored model",
		Args:  cobra.ExactArgs(1),
		Run:   runModelRm,
	}

	cmd.AddCommand(show, rm)
	RootCmd.AddCommand(cmd)
}

func runModels(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s := mustStore()
	defer s.Close()

	list, err := s.ListModels(cmd.Context(), limit)
	if err != nil {
		exitErr("list models", err)
	}
	printJSON(list)
}

func runModelShow(cmd *cobra.Command, args []string) {
	s := mustStore()
	defer s.Close()

	printJSON(resolveModel(cmd, s))
}

func runModelRm(cmd *cobra.Command, args []string) {
	s := mustStore()
	defer s.Close()

	if err := s.DeleteModel(cmd.Context(), args[0]); err != nil {
		exitErr("delete model", err)
	}
	printJSON(map[string]string{"deleted": args[0]})
}
