package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theapemachine/contract-search/pkg/contract"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/search"
	"github.com/theapemachine/contract-search/pkg/ui"
)

var (
	topKFlag int

	contractCmd = &cobra.Command{
		Use:   "contract",
		Short: "Query agreements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	contractGetCmd = &cobra.Command{
		Use:   "get <contract-id>",
		Short: "Show one agreement with its clauses and parties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := parseContractID(args[0])

			if err != nil {
				return err
			}

			return withService(cmd.Context(), func(svc *search.Service) error {
				agreement, err := svc.GetContract(cmd.Context(), contractID)

				if err != nil {
					return err
				}

				return output(agreement, ui.Agreement(agreement))
			})
		},
	}

	contractListCmd = &cobra.Command{
		Use:   "list <organization>",
		Short: "List agreements a matching organization is party to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *search.Service) error {
				agreements, err := svc.GetContracts(cmd.Context(), strings.Join(args, " "))

				if err != nil {
					return err
				}

				return output(agreements, ui.Agreements(agreements))
			})
		},
	}

	contractWithCmd = &cobra.Command{
		Use:       "with <clause-type>",
		Short:     "List agreements that have a clause of the given type",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: contract.ClauseTypeLabels(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return clauseCommand(cmd, args, (*search.Service).GetContractsWithClauseType)
		},
	}

	contractWithoutCmd = &cobra.Command{
		Use:       "without <clause-type>",
		Short:     "List agreements that lack a clause of the given type",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: contract.ClauseTypeLabels(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return clauseCommand(cmd, args, (*search.Service).GetContractsWithoutClause)
		},
	}

	contractSimilarCmd = &cobra.Command{
		Use:   "similar <text>",
		Short: "List agreements with clause excerpts similar to the text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *search.Service) error {
				text := strings.Join(args, " ")

				var (
					agreements []contract.Agreement
					err        error
				)

				if topKFlag > 0 {
					agreements, err = svc.SearchSimilarExcerpts(cmd.Context(), text, topKFlag)
				} else {
					agreements, err = svc.GetContractsSimilarText(cmd.Context(), text)
				}

				if err != nil {
					return err
				}

				return output(agreements, ui.Agreements(agreements))
			})
		},
	}

	contractClausesCmd = &cobra.Command{
		Use:   "clauses <contract-id>",
		Short: "Show the clauses of an agreement with their excerpts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := parseContractID(args[0])

			if err != nil {
				return err
			}

			return withService(cmd.Context(), func(svc *search.Service) error {
				clauses, err := svc.GetContractClauses(cmd.Context(), contractID)

				if err != nil {
					return err
				}

				return output(clauses, ui.Clauses(clauses))
			})
		},
	}
)

func clauseCommand(
	cmd *cobra.Command,
	args []string,
	query func(*search.Service, context.Context, contract.ClauseType) ([]contract.Agreement, error),
) error {
	clauseType, err := contract.ParseClauseType(strings.Join(args, " "))

	if err != nil {
		return err
	}

	return withService(cmd.Context(), func(svc *search.Service) error {
		agreements, err := query(svc, cmd.Context(), clauseType)

		if err != nil {
			return err
		}

		return output(agreements, ui.Agreements(agreements))
	})
}

func parseContractID(raw string) (int64, error) {
	contractID, err := strconv.ParseInt(raw, 10, 64)

	if err != nil {
		return 0, errors.ErrValidation.WithMessagef("contract id %q is not an integer", raw)
	}

	return contractID, nil
}

func init() {
	rootCmd.AddCommand(contractCmd)
	contractCmd.AddCommand(
		contractGetCmd,
		contractListCmd,
		contractWithCmd,
		contractWithoutCmd,
		contractSimilarCmd,
		contractClausesCmd,
	)

	contractSimilarCmd.Flags().IntVarP(&topKFlag, "top-k", "k", 0, "number of excerpts to match (default from search.top_k)")
}
