package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/authkeeper/internal/auth"
)

// NewGenSecretCmd creates the gen-secret subcommand.
func NewGenSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-secret",
		Short: "Print a random secret for AUTH_JWT_SECRET or AUTH_CSRF_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := auth.GenerateSecret()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}
}
