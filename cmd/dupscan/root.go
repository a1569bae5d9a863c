package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for dupscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupscan",
		Short: "Find files with identical content",
		Long: `dupscan finds files with identical content below a directory.

Every regular file is fingerprinted with a cryptographic digest in parallel.
Files sharing a fingerprint are grouped, and groups are listed with the
most copies first. Unreadable files are reported and skipped.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
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
