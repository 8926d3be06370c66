package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/theapemachine/contract-search/pkg/bootstrap"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the full-text, range and vector indexes the searches need",
	Long:  longBootstrap,
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, err := connect(cmd.Context())

		if err != nil {
			return err
		}

		defer exec.Close(cmd.Context())

		created, err := bootstrap.EnsureIndexes(cmd.Context(), exec, bootstrap.Options{
			Dimensions: cfg.Embedding.Dimensions,
			Similarity: cfg.Search.Similarity,
		})

		if err != nil {
			return err
		}

		rendered := "all indexes already exist"

		if len(created) > 0 {
			rendered = "created " + strings.Join(created, ", ")
		}

		return output(map[string]any{"created": created}, rendered)
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

var longBootstrap = `
Create every index the retrieval queries depend on. Existing indexes are
left alone, so the command is safe to run on every deploy. The vector
index takes its size from embedding.dimensions.
`
