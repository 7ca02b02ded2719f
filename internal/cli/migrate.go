package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/augleao/frontend-dev-sub000/internal/control"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	if appCfg.Database.URL == "" {
		slog.Error("database.url (DATABASE_URL) is required")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := control.OpenDB(ctx, appCfg.Database)
	if err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	version, err := db.MigrationVersion(ctx)
	if err != nil {
		slog.Error("Failed to read migration version", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Database at migration version %d\n", version)
}
