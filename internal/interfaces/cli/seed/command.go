package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	accessApp "gatekeeper/internal/application/access"
	"gatekeeper/internal/infrastructure/config"
	"gatekeeper/internal/infrastructure/database"
	"gatekeeper/internal/infrastructure/repository"
	"gatekeeper/internal/shared/db"
	"gatekeeper/internal/shared/logger"
)

var (
	env        string
	policyPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the permission catalog and roles",
		Long:  `Load the declarative access policy file and converge the permission catalog, roles and role grants to it. Safe to re-run.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&policyPath, "policy", "p", "", "Path to the access policy file (default: from config)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if policyPath == "" {
		policyPath = cfg.Access.SeedPolicyPath
	}

	policy, err := accessApp.LoadSeedPolicy(policyPath)
	if err != nil {
		return fmt.Errorf("failed to load access policy: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	permissionRepo := repository.NewPermissionRepository(database.Get())
	roleRepo := repository.NewRoleRepository(database.Get())
	txManager := db.NewTransactionManager(database.Get())

	seeder := accessApp.NewSeeder(permissionRepo, roleRepo, txManager, log)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Infow("seeding access policy",
		"policy", policyPath,
		"permissions", len(policy.Permissions),
		"roles", len(policy.Roles))

	if err := seeder.Seed(ctx, policy); err != nil {
		log.Errorw("seeding failed", "error", err)
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Infow("access policy seeded successfully")
	fmt.Printf("Access policy '%s' applied successfully\n", policyPath)

	return nil
}
