package cmd

import (
	"github.com/spf13/cobra"
	"github.com/theapemachine/contract-search/pkg/auth"
	"github.com/theapemachine/contract-search/pkg/errors"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a bearer token for the REST API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Server.Auth.Secret == "" {
			return errors.ErrValidation.WithMessagef("server.auth.secret is not set")
		}

		token, err := auth.NewService(
			cfg.Server.Auth.Secret,
			auth.WithTTL(cfg.Server.Auth.TokenTTL),
		).IssueToken(args[0])

		if err != nil {
			return err
		}

		return output(token, token.Token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
