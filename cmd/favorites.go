package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite",
	Short: "Mark or unmark files, folders, applications or emoji as favorites",
}

var favoriteAddCmd = &cobra.Command{
	Use:     "add <path>",
	Aliases: []string{"a"},
	Args:    cobra.ExactArgs(1),
	RunE:    runSetFavorite(true),
}

var favoriteRemoveCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    runSetFavorite(false),
}

func runSetFavorite(fav bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store.SetFavorite(context.Background(), args[0], fav, time.Now().UnixMilli()); err != nil {
			return err
		}
		if fav {
			fmt.Printf("favorited %s\n", args[0])
		} else {
			fmt.Printf("unfavorited %s\n", args[0])
		}
		return nil
	}
}

func init() {
	favoriteCmd.AddCommand(favoriteAddCmd, favoriteRemoveCmd)
	rootCmd.AddCommand(favoriteCmd)
}
