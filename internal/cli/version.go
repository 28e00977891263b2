package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"libgov/internal/schema"
)

const version = "0.1.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := map[string]string{
			"name":           "libgov",
			"version":        version,
			"schema_version": schema.Version,
		}
		out, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(out))
	},
}
