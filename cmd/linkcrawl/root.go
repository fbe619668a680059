package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkcrawl",
		Short: "Concurrent broken link checker",
		Long: `linkcrawl crawls a website from a seed URL and checks every link it finds.

Pages on the seed's domain are fetched and their links followed; links to
other domains are checked once but never expanded. Each URL is checked at
most once, and every check is bounded by a timeout.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging and print accessible URLs")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
