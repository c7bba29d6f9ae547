package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/receitaapp/receita-server/internal/di"
	"github.com/receitaapp/receita-server/internal/di/providers"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  `Creates the database if needed and applies every embedded migration that has not run yet.`,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	injector := di.NewContainer(flags)
	defer func() { _ = injector.Shutdown() }()

	// Opening the store applies the migrations.
	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	version, dirty, err := storeHandle.SchemaVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty: a migration failed halfway", version)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "database at schema version %d\n", version)
	return nil
}
