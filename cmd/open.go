package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/atomicobject/diskdex/internal/openutil"
)

var openSelect bool

var openCmd = &cobra.Command{
	Use:     "open [path]",
	Aliases: []string{"o"},
	Short:   "Open an indexed file or folder in its default application",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		path := ""
		if len(args) > 0 && !openSelect {
			path = args[0]
		} else {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			selected, err := pickIndexedPath(context.Background(), a, query)
			if err != nil {
				return err
			}
			path = selected
		}

		if path == "" {
			return errors.New("no path selected")
		}
		return openutil.Open(path)
	},
}

func init() {
	openCmd.Flags().BoolVar(&openSelect, "select", false, "pick interactively via fuzzy finder")
	openCmd.Flags().BoolVar(&openSelect, "ls", false, "alias for --select")
	rootCmd.AddCommand(openCmd)
}
