// Package cli implements the authkeeper command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/authkeeper/internal/config"
	"github.com/mrlokans/authkeeper/internal/entrypoint"
)

// NewRootCmd creates the root command. Running it without a subcommand serves HTTP.
func NewRootCmd(version string) *cobra.Command {
	serve := NewServeCmd(version)

	cmd := &cobra.Command{
		Use:   "authkeeper",
		Short: "Username/password authentication service",
		Long: `authkeeper registers accounts, logs users in and keeps them logged in
with a signed session token delivered in an HttpOnly cookie.

Configuration is read from the environment (APP_ENV, PORT, DATABASE_PATH,
DATABASE_URL, AUTH_JWT_SECRET, ...).`,
		Version:      version,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewGenSecretCmd())
	cmd.AddCommand(NewAuditCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entrypoint.Run(config.NewConfig(), version)
			return nil
		},
	}
}
