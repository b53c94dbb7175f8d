package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show aggregate indexing status across all watched roots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Start(context.Background()); err != nil {
			return err
		}

		snap := a.Controller.GetStatus()
		fmt.Printf("status: %s\n", snap.Status)
		fmt.Printf("watchers: %d total, %d watching, %d actively indexing\n",
			snap.TotalWatchers, snap.WatchingWatchers, snap.ActiveIndexingWatchers)
		fmt.Printf("files: %d/%d processed\n", snap.ProcessedFiles, snap.TotalFiles)
		if snap.IsPaused {
			fmt.Println("paused: yes")
		}
		for _, f := range snap.Folders {
			fmt.Printf("  %s\t%s\t%d/%d\n", f.Path, f.State, f.ProcessedFiles, f.TotalFiles)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
