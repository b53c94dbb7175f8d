package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atomicobject/diskdex/internal/search"
	"github.com/atomicobject/diskdex/internal/store"
)

var (
	filterTypes []string
	filterTags  []string
	sizeMin     int64
	sizeMax     int64
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"s"},
	Short:   "Rank files and folders by name against a query",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.Engine.QuickSearch(context.Background(), args[0])
		if err != nil {
			return err
		}
		printItems(items)
		return nil
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Search files/folders with type/date/size/tag/query predicates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		f := search.Filters{Type: filterTypes, Tags: filterTags}
		if len(args) > 0 {
			f.Query = args[0]
		}
		if sizeMin != 0 || sizeMax != 0 {
			sr := &search.SizeRange{}
			if sizeMin != 0 {
				sr.Min = &sizeMin
			}
			if sizeMax != 0 {
				sr.Max = &sizeMax
			}
			f.Size = sr
		}

		items, err := a.Engine.FilteredSearch(context.Background(), f)
		if err != nil {
			return err
		}
		printItems(items)
		return nil
	},
}

var appSearchCmd = &cobra.Command{
	Use:   "apps <query>",
	Short: "Rank installed applications by name/description/keywords",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		apps, err := a.Engine.SearchApplications(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, app := range apps {
			fmt.Printf("%s\t%s\n", app.Name, app.Path)
		}
		return nil
	},
}

func printItems(items []store.Item) {
	for _, it := range items {
		star := " "
		if it.IsFavorite {
			star = "*"
		}
		fmt.Printf("%s %s\t%s\t%s\n", star, it.Type, it.Name, it.Path)
	}
}

func init() {
	filterCmd.Flags().StringSliceVarP(&filterTypes, "type", "t", nil, "restrict to these types: folder, image, document, audio, video, or a category")
	filterCmd.Flags().StringSliceVar(&filterTags, "tags", nil, "restrict to files tagged with any of these tag names")
	filterCmd.Flags().Int64Var(&sizeMin, "size-min", 0, "lower bound on size in bytes")
	filterCmd.Flags().Int64Var(&sizeMax, "size-max", 0, "upper bound on size in bytes")
	rootCmd.AddCommand(searchCmd, filterCmd, appSearchCmd)
}
