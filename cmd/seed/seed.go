// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/migration"
	pgstore "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/postgres"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/auth"
	"github.com/HoangTuan-git/Product-Supplier-Management/pkg/uuid"
)

// defaultSeedTimeout bounds the whole run, hashing included.
const defaultSeedTimeout = 60 * time.Second

// seedEnv is the subset of the server configuration the seeder needs.
type seedEnv struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	BcryptCost    int    `env:"BCRYPT_COST"    envDefault:"12"`
}

// seedConfig holds the command-line flags.
type seedConfig struct {
	timeout time.Duration
	migrate bool
}

// seedAccount is one default account.
type seedAccount struct {
	Username string
	Email    string
	Password string
	Role     sec.UserRole
}

// defaultAccounts are created on every run unless they already exist.
var defaultAccounts = []seedAccount{
	{Username: "admin", Email: "admin@example.com", Password: "Admin123", Role: sec.RoleAdmin},
	{Username: "manager", Email: "manager@example.com", Password: "Manager123", Role: sec.RoleUser},
	{Username: "staff", Email: "staff@example.com", Password: "Staff123", Role: sec.RoleUser},
}

// accountCreator persists a user. [auth.PostgresUserRepository] satisfies it.
type accountCreator interface {
	Create(context context.Context, user *auth.User) error
}

// passwordHasher derives the stored credential. [sec.PasswordHasher] satisfies it.
type passwordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
}

// seedReport counts what a run did.
type seedReport struct {
	Created []string
	Skipped []string
}

// NewRootCmd creates the seed command.
func NewRootCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default Stockroom accounts",
		Long: `Creates the admin, manager and staff accounts.
This command is idempotent - accounts that already exist are skipped.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for the whole run (e.g., 30s, 1m)")
	cmd.Flags().BoolVar(&cfg.migrate, "migrate", true, "apply pending migrations before seeding")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	settings := seedEnv{}
	if err := env.Parse(&settings); err != nil {
		return fmt.Errorf("seed_config_invalid: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("app", constants.AppName))

	// Use cmd.Context() to respect SIGINT/SIGTERM signals.
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	if cfg.migrate {
		if err := migration.RunUp(settings.DatabaseURL, settings.MigrationPath, logger); err != nil {
			return err
		}
	}

	pool, err := pgstore.NewPool(ctx, settings.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	hasher, err := sec.NewPasswordHasher(settings.BcryptCost, 1)
	if err != nil {
		return fmt.Errorf("seed_hasher_invalid: %w", err)
	}

	report, err := seedAccounts(ctx, auth.NewUserRepository(pool), hasher, clock.System{}, defaultAccounts)
	for _, username := range report.Created {
		cmd.Printf("Created user %q\n", username)
	}
	for _, username := range report.Skipped {
		cmd.Printf("Skipped user %q (already exists)\n", username)
	}
	return err
}

/*
seedAccounts creates every account in accounts, skipping duplicates.

Parameters:
  - context: context.Context
  - repository: accountCreator
  - hasher: passwordHasher
  - clk: clock.Clock
  - accounts: []seedAccount

Returns:
  - seedReport: Usernames created and skipped, up to the first failure
  - error: The first non-duplicate failure
*/
func seedAccounts(context context.Context, repository accountCreator, hasher passwordHasher, clk clock.Clock, accounts []seedAccount) (seedReport, error) {
	report := seedReport{}

	for _, account := range accounts {
		digest, err := hasher.Hash(context, account.Password)
		if err != nil {
			return report, fmt.Errorf("seed_hash_failed: %s: %w", account.Username, err)
		}

		user := &auth.User{
			ID:           uuid.New(),
			Username:     account.Username,
			Email:        account.Email,
			PasswordHash: digest,
			Role:         account.Role,
			IsActive:     true,
			CreatedAt:    clk.Now(),
		}

		err = repository.Create(context, user)
		switch {
		case err == nil:
			report.Created = append(report.Created, account.Username)
		case apperr.HasCode(err, apperr.CodeDuplicateIdentity):
			report.Skipped = append(report.Skipped, account.Username)
		default:
			return report, fmt.Errorf("seed_create_failed: %s: %w", account.Username, err)
		}
	}

	return report, nil
}
