package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/motifbpe/internal/model"
	"github.com/rcliao/motifbpe/internal/modelio"
	"github.com/rcliao/motifbpe/internal/store"
)

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Model ID (default: latest trained model)")
	cmd.Flags().String("model-file", "", "Read the model from a JSON file instead of the database")
}

// resolveModel picks the model named by --model-file or --model, falling
// back to the newest model in the database.
func resolveModel(cmd *cobra.Command, s *store.SQLiteStore) *model.Model {
	file, _ := cmd.Flags().GetString("model-file")
	id, _ := cmd.Flags().GetString("model")

	if file != "" {
		m, err := modelio.LoadFile(file)
		if err != nil {
			exitErr("load model", err)
		}
		return m
	}
	var (
		m   *model.Model
		err error
	)
	if id != "" {
		m, err = s.GetModel(cmd.Context(), id)
	} else {
		m, err = s.LatestModel(cmd.Context())
	}
	if err != nil {
		exitErr("load model", err)
	}
	return m
}
