package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicobject/diskdex/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing diskdex's search and indexing tools",
	Long: `Run a Model Context Protocol (MCP) server that exposes diskdex
functionality as tools. The server communicates over stdin/stdout and can
be used with MCP clients like Claude Desktop, Cursor, or VS Code.

Example MCP client configuration:
{
  "mcpServers": {
    "diskdex": {
      "command": "/path/to/diskdex",
      "args": ["mcp"],
      "env": {}
    }
  }
}`,
	Run: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetOutput(os.Stderr)
		}

		a, err := openApp()
		if err != nil {
			log.Fatal(err)
		}
		defer a.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := a.Start(ctx); err != nil {
			log.Fatal(err)
		}

		cfg := mcpserver.Config{
			Store:      a.Store,
			Engine:     a.Engine,
			Controller: a.Controller,
			Perf:       a.Perf,
			Debug:      debug,
		}

		if debug {
			log.Println("starting diskdex MCP server")
		}
		if err := mcpserver.Serve(cfg); err != nil {
			log.Fatalf("MCP server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
