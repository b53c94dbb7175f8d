package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atomicobject/diskdex/internal/store"
)

var watchDepth int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage watched root folders",
}

var watchAddCmd = &cobra.Command{
	Use:     "add <path>",
	Aliases: []string{"a"},
	Short:   "Start watching a folder",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if err := a.Start(ctx); err != nil {
			return err
		}

		result, err := a.Controller.AddWatchPath(ctx, args[0], watchDepth)
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("overlaps existing watched folder %q", result.OverlappingFolder)
		}
		fmt.Printf("watching %s\n", args[0])
		return nil
	},
}

var watchRemoveCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Short:   "Stop watching a folder and drop its indexed entries",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if err := a.Start(ctx); err != nil {
			return err
		}
		if err := a.Controller.RemoveWatchPath(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("stopped watching %s\n", args[0])
		return nil
	},
}

var watchListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List watched root folders",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		folders, err := a.Store.ListWatchedFolders(context.Background())
		if err != nil {
			return err
		}
		for _, f := range folders {
			depth := "unlimited"
			if f.Depth != store.UnlimitedDepth {
				depth = fmt.Sprintf("%d", f.Depth)
			}
			fmt.Printf("%s\t(depth: %s, files: %d/%d)\n", f.Path, depth, f.ProcessedFiles, f.TotalFiles)
		}
		return nil
	},
}

func init() {
	watchAddCmd.Flags().IntVarP(&watchDepth, "depth", "d", store.UnlimitedDepth, "max recursion depth, -1 for unlimited")
	watchCmd.AddCommand(watchAddCmd, watchRemoveCmd, watchListCmd)
	rootCmd.AddCommand(watchCmd)
}
