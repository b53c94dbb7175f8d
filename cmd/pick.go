package cmd

import (
	"context"
	"errors"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/atomicobject/diskdex/internal/app"
	"github.com/atomicobject/diskdex/internal/search"
	"github.com/atomicobject/diskdex/internal/store"
)

// pickIndexedPath runs query through quick_search (or, for "", lists the
// indexed items through an unfiltered filtered_search, up to its result
// limit) and lets the user fuzzy-pick one result, grounded on the
// teacher's cmd/note_picker.go pickExistingNotePath.
func pickIndexedPath(ctx context.Context, a *app.App, query string) (string, error) {
	var items []store.Item
	var err error
	if query == "" {
		items, err = a.Engine.FilteredSearch(ctx, search.Filters{})
	} else {
		items, err = a.Engine.QuickSearch(ctx, query)
	}
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", errors.New("no indexed items match")
	}

	idx, err := fuzzyfinder.Find(items, func(i int) string {
		return items[i].Name + "  (" + items[i].Path + ")"
	})
	if err != nil {
		return "", err
	}
	return items[idx].Path, nil
}

var pickCmd = &cobra.Command{
	Use:   "pick [query]",
	Short: "Fuzzy-pick an indexed file or folder and print its path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		path, err := pickIndexedPath(context.Background(), a, query)
		if err != nil {
			return err
		}
		cmd.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}
