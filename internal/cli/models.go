package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var forceRefresh bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to the configured provider account",
	Run:   runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&forceRefresh, "force", false, "bypass the catalog cache")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	app := openApp(ctx)
	defer app.Close()

	models, err := app.Catalog().ListAvailableModels(ctx, forceRefresh)
	if err != nil {
		slog.Error("Failed to list models", "error", err)
		os.Exit(1)
	}
	for _, m := range models {
		fmt.Println(m)
	}
}
