package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/theapemachine/contract-search/pkg/search"
	"github.com/theapemachine/contract-search/pkg/ui"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer an aggregation question about the agreements",
	Long:  longAsk,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(svc *search.Service) error {
			answer, err := svc.AnswerAggregationQuestion(cmd.Context(), strings.Join(args, " "))

			if err != nil {
				return err
			}

			return output(map[string]string{"answer": answer}, ui.Answer(answer))
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

var longAsk = `
Answer a counting or aggregation question. The question is translated to
Cypher by the configured model and run read-only; the rows come back as
text. An empty answer means the model could not produce a usable query.

Example:
  contract-search ask "How many agreements have a Non-Compete clause?"
`
