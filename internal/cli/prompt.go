package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/prompt"
)

var (
	promptTemplate string
	promptKey      string
	promptVars     []string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Prompt template utilities",
}

var promptRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a prompt template with variables",
	Run:   runPromptRender,
}

func init() {
	promptRenderCmd.Flags().StringVar(&promptTemplate, "template", "", "inline template text")
	promptRenderCmd.Flags().StringVar(&promptKey, "key", "", "stored template indexador")
	promptRenderCmd.Flags().StringArrayVar(&promptVars, "var", nil, "template variable as name=value (repeatable)")
	promptRenderCmd.MarkFlagsMutuallyExclusive("template", "key")
	promptRenderCmd.MarkFlagsOneRequired("template", "key")

	promptCmd.AddCommand(promptRenderCmd)
	rootCmd.AddCommand(promptCmd)
}

// parseVars turns ["a=1", "b=x=y"] into {"a": "1", "b": "x=y"}.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		vars[strings.TrimSpace(name)] = value
	}
	return vars, nil
}

func runPromptRender(cmd *cobra.Command, args []string) {
	vars, err := parseVars(promptVars)
	if err != nil {
		slog.Error("Invalid variables", "error", err)
		os.Exit(1)
	}

	if promptTemplate != "" {
		fmt.Println(prompt.Render(promptTemplate, vars))
		return
	}

	ctx := context.Background()
	app := openApp(ctx)
	defer app.Close()

	text, err := app.Prompts().Build(ctx, promptKey, vars)
	if err != nil {
		slog.Error("Failed to build prompt", "key", promptKey, "error", err)
		os.Exit(1)
	}
	fmt.Println(text)
}
