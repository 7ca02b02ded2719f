package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/resolver"
)

var (
	officeName string
	officeCode string
	agentSet   domain.Office
)

var agentsCmd = &cobra.Command{
	Use:   "agentes",
	Short: "Show the AI agents resolved for a notary office",
	Run:   runAgents,
}

var agentsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Configure the AI agents of a notary office",
	Run:   runAgentsSet,
}

func init() {
	agentsCmd.Flags().StringVar(&officeName, "serventia", "", "office short name (nome_abreviado)")
	agentsCmd.Flags().StringVar(&officeCode, "codigo", "", "office code (codigo_serventia)")

	agentsSetCmd.Flags().StringVar(&agentSet.Code, "codigo", "", "office code (required)")
	agentsSetCmd.Flags().StringVar(&agentSet.Name, "serventia", "", "office short name")
	agentsSetCmd.Flags().StringVar(&agentSet.PrimaryModel, "agent", "", "primary model")
	agentsSetCmd.Flags().StringVar(&agentSet.Fallback1, "fallback1", "", "first fallback model")
	agentsSetCmd.Flags().StringVar(&agentSet.Fallback2, "fallback2", "", "second fallback model")
	_ = agentsSetCmd.MarkFlagRequired("codigo")

	agentsCmd.AddCommand(agentsSetCmd)
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	app := openApp(ctx)
	defer app.Close()

	res := app.Resolver().Resolve(ctx, resolver.Query{Code: officeCode, Name: officeName})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERVENTIA\tSOURCE\tREASON\tAGENTS")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Office, res.Source, res.Reason, strings.Join(res.Candidates, ", "))
	_ = w.Flush()

	if res.Err != nil {
		slog.Warn("Lookup failed", "error", res.Err)
	}
	if res.Empty() {
		os.Exit(2)
	}
}

func runAgentsSet(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	app := openApp(ctx)
	defer app.Close()

	agentSet.Code = domain.NormalizeOfficeCode(agentSet.Code)
	if agentSet.Code == "" {
		slog.Error("--codigo must contain digits")
		os.Exit(1)
	}
	if agentSet.Candidates().Empty() {
		slog.Warn("No agent given, the office will have no AI configuration", "codigo", agentSet.Code)
	}

	// The first office table is the write target.
	if err := app.Offices()[0].UpsertAgents(ctx, &agentSet); err != nil {
		slog.Error("Failed to save agents", "error", err)
		os.Exit(1)
	}
	slog.Info("Agents saved", "codigo", agentSet.Code, "source", app.Offices()[0].Source(),
		"agents", agentSet.Candidates().Strings())
}
