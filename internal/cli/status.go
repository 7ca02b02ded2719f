package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the AI agent configuration of every notary office",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	app := openApp(ctx)
	defer app.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "SOURCE\tCODIGO\tSERVENTIA\tAGENT\tFALLBACK1\tFALLBACK2")

	for _, src := range app.Offices() {
		offices, err := src.List(ctx)
		if err != nil {
			slog.Warn("Failed to list offices", "source", src.Source(), "error", err)
			continue
		}
		for _, o := range offices {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				src.Source(), o.Code, o.Name, o.PrimaryModel, o.Fallback1, o.Fallback2)
		}
	}
	_ = w.Flush()
}
