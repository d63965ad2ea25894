package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "declrest",
	Short: "Declarative HTTP requests from the command line",
	Long: `declrest composes an HTTP request from declarative flags -- endpoint,
verb, headers, query, form, body, timeout -- resolves {name} templates
against --set values, sends it, and post-processes the response.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(versionCmd)
}
