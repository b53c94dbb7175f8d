package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// version is reported to MCP clients during initialization.
const version = "v0.1.0"

// Serve builds an MCP server exposing cfg's tool surface and runs it over
// stdio until the client disconnects, following the teacher's cmd/mcp.go
// server.NewMCPServer/server.ServeStdio pairing.
func Serve(cfg Config) error {
	s := server.NewMCPServer(
		"diskdex",
		version,
		server.WithToolCapabilities(false),
	)

	if err := RegisterAll(s, cfg); err != nil {
		return err
	}

	return server.ServeStdio(s)
}
