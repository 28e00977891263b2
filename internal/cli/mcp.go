package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"libgov/internal/mcp"
)

var (
	mcpPolicy  string
	mcpLedger  string
	mcpHistory string
	mcpWorkDir string
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpPolicy, "policy", "", "Path to the policy set YAML")
	mcpCmd.Flags().StringVar(&mcpLedger, "ledger", defaultLedgerPath(), "Path to the provenance ledger")
	mcpCmd.Flags().StringVar(&mcpHistory, "history", defaultHistoryPath(), "Path to the conformance history database")
	mcpCmd.Flags().StringVar(&mcpWorkDir, "workdir", "", "Working directory for hook execution")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve libgov tools over MCP (stdio)",
	Long: "Exposes validate, policy check, drift check, and history tools to MCP\n" +
		"clients over stdio. Runs until the client disconnects or interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server, err := mcp.New(mcp.Config{
			PolicyPath:  mcpPolicy,
			LedgerPath:  mcpLedger,
			HistoryPath: mcpHistory,
			WorkDir:     mcpWorkDir,
		})
		if err != nil {
			return err
		}
		defer server.Close()

		return server.Run(ctx)
	},
}
