package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicobject/diskdex/internal/app"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:     "diskdex",
	Short:   "diskdex - local disk search indexer and query engine",
	Version: "v0.1.0",
	Long: `diskdex watches folders on disk, keeps a searchable index of their
files and folders up to date, and answers quick, filtered, and application
searches against it.`,
}

// Execute runs the root command, following the teacher's cmd/root.go
// Execute()/os.Exit(1)-on-error pattern.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "diskdex: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")
}

// openApp is the shared entrypoint every subcommand uses to reach the
// composition root, mirroring the teacher's per-command obsidian.Vault{}
// construction.
func openApp() (*app.App, error) {
	return app.Open()
}
