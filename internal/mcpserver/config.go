// Package mcpserver exposes the Search Engine, Index Controller, and Index
// Store as an MCP tool surface over stdio, grounded on the teacher's
// pkg/mcp/register.go/tools.go. It gives §6's otherwise-abstract IPC
// surface (quick_search, filtered_search, app_search, favorites_*, notes_*,
// watch_folder_*, indexer_get_status, performance_get/set) a concrete,
// invokable transport.
package mcpserver

import (
	"github.com/atomicobject/diskdex/internal/controller"
	"github.com/atomicobject/diskdex/internal/perf"
	"github.com/atomicobject/diskdex/internal/search"
	"github.com/atomicobject/diskdex/internal/store"
)

// Config bundles the components tool handlers call into, mirroring the
// teacher's mcp.Config shape (a struct of collaborators passed once into
// RegisterAll).
type Config struct {
	Store      *store.Store
	Engine     *search.Engine
	Controller *controller.Controller
	Perf       *perf.Manager
	Debug      bool
}
