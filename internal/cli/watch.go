package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"libgov/internal/runner"
	"libgov/internal/watch"
)

var watchWorkDir string

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchWorkDir, "workdir", "", "Working directory for hook execution")
}

var watchCmd = &cobra.Command{
	Use:   "watch <library.yaml>",
	Short: "Re-run conformance whenever the document changes",
	Long: "Watches a library document and re-runs the full conformance pipeline\n" +
		"on every save. Runs until interrupted.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := watch.New(args[0], runner.New(watchWorkDir), func(res *runner.Result, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
				return
			}
			fmt.Printf("--- %s %s: %s (%dms)\n",
				res.LibraryName, res.LibraryVersion, passFail(res.AllPassed()), res.TotalDurationMS)
		})

		fmt.Printf("watching %s\n", args[0])
		return w.Run(ctx)
	},
}
