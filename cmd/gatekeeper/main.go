package main

import (
	"os"

	"github.com/spf13/cobra"

	"gatekeeper/internal/interfaces/cli/migrate"
	"gatekeeper/internal/interfaces/cli/seed"
	"gatekeeper/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gatekeeper",
		Short: "Gatekeeper - multi-tenant permission resolution service",
		Long:  `Gatekeeper resolves role-based permissions across organizations, groups, teams and projects, with built-in server, migration and policy seeding commands.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
