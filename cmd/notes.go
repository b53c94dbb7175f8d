package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Attach or read a note on a file, folder or emoji",
}

var notesGetCmd = &cobra.Command{
	Use:   "get <path>",
	Args:  cobra.ExactArgs(1),
	Short: "Print the note attached to a path",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		content, found, err := a.Store.GetNote(context.Background(), args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no note attached to %s", args[0])
		}
		fmt.Println(content)
		return nil
	},
}

var notesSetCmd = &cobra.Command{
	Use:   "set <path> <content>",
	Args:  cobra.ExactArgs(2),
	Short: "Set (or, with empty content, delete) the note attached to a path",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store.SetNote(context.Background(), args[0], args[1], time.Now().UnixMilli()); err != nil {
			return err
		}
		fmt.Printf("note saved for %s\n", args[0])
		return nil
	},
}

func init() {
	notesCmd.AddCommand(notesGetCmd, notesSetCmd)
	rootCmd.AddCommand(notesCmd)
}
