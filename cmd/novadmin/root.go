package main

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time with -ldflags "-X main.Version=...".
	Version = "dev"

	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "novadmin",
	Short: "novadmin admin dashboard tooling",
	Long: "novadmin hosts the domain rules of the web-novel admin dashboard.\n\n" +
		"Run 'novadmin serve' to start the local mock backend.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "YAML config file (NOVADMIN_* environment variables override it)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
