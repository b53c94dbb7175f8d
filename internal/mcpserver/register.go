package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterAll registers every diskdex tool on s, following the teacher's
// pkg/mcp/register.go layout of one mcp.NewTool + s.AddTool pair per
// operation.
func RegisterAll(s *server.MCPServer, cfg Config) error {
	quickSearchTool := mcp.NewTool("quick_search",
		mcp.WithDescription("Rank files and folders by name against a query. Response: {items:[{path,name,type,category,size,modifiedAt,isFavorite}]}"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text; whitespace-separated tokens are ANDed")),
	)
	s.AddTool(quickSearchTool, QuickSearchTool(cfg))

	filteredSearchTool := mcp.NewTool("filtered_search",
		mcp.WithDescription("Search files/folders with type/date/size/tag/query predicates. Response: {items:[...]}"),
		mcp.WithString("query", mcp.Description("Optional substring query over name or note content")),
		mcp.WithArray("type", mcp.Description("Restrict to these types: folder, image, document, audio, video, or a custom category"), mcp.WithStringItems()),
		mcp.WithNumber("dateFrom", mcp.Description("Lower bound on modifiedAt (unix ms)")),
		mcp.WithNumber("dateTo", mcp.Description("Upper bound on modifiedAt (unix ms)")),
		mcp.WithNumber("sizeMin", mcp.Description("Lower bound on size (bytes)")),
		mcp.WithNumber("sizeMax", mcp.Description("Upper bound on size (bytes)")),
		mcp.WithArray("tags", mcp.Description("Restrict to files tagged with any of these tag names"), mcp.WithStringItems()),
	)
	s.AddTool(filteredSearchTool, FilteredSearchTool(cfg))

	appSearchTool := mcp.NewTool("app_search",
		mcp.WithDescription("Rank installed applications by name/display name/description/keywords. Response: {apps:[...]}"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	)
	s.AddTool(appSearchTool, AppSearchTool(cfg))

	favoritesAddTool := mcp.NewTool("favorites_add",
		mcp.WithDescription("Mark a file, folder, application, or emoji path as a favorite."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to favorite")),
	)
	s.AddTool(favoritesAddTool, FavoritesSetTool(cfg, true))

	favoritesRemoveTool := mcp.NewTool("favorites_remove",
		mcp.WithDescription("Unmark a file, folder, application, or emoji path as a favorite."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to unfavorite")),
	)
	s.AddTool(favoritesRemoveTool, FavoritesSetTool(cfg, false))

	favoritesBatchCheckTool := mcp.NewTool("favorites_batch_check",
		mcp.WithDescription("Check favorite status for multiple paths at once. Response: {path: bool, ...}"),
		mcp.WithArray("paths", mcp.Required(), mcp.Description("Paths to check"), mcp.WithStringItems()),
	)
	s.AddTool(favoritesBatchCheckTool, FavoritesBatchCheckTool(cfg))

	notesGetTool := mcp.NewTool("notes_get",
		mcp.WithDescription("Get the note attached to a path. Response: {path,content} or null."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target path")),
	)
	s.AddTool(notesGetTool, NotesGetTool(cfg))

	notesSetTool := mcp.NewTool("notes_set",
		mcp.WithDescription("Set (or, with empty content, delete) the note attached to a path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target path")),
		mcp.WithString("content", mcp.Description("Note content; empty deletes the note")),
	)
	s.AddTool(notesSetTool, NotesSetTool(cfg))

	notesBatchCheckTool := mcp.NewTool("notes_batch_check",
		mcp.WithDescription("Check whether multiple paths have a note attached. Response: {path: bool, ...}"),
		mcp.WithArray("paths", mcp.Required(), mcp.Description("Paths to check"), mcp.WithStringItems()),
	)
	s.AddTool(notesBatchCheckTool, NotesBatchCheckTool(cfg))

	watchFolderAddTool := mcp.NewTool("watch_folder_add",
		mcp.WithDescription("Start watching a new root folder."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute folder path")),
		mcp.WithNumber("depth", mcp.Description("Max recursion depth; omit or -1 for unlimited")),
	)
	s.AddTool(watchFolderAddTool, WatchFolderAddTool(cfg))

	watchFolderRemoveTool := mcp.NewTool("watch_folder_remove",
		mcp.WithDescription("Stop watching a root folder and remove its indexed entries."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Watched root path")),
	)
	s.AddTool(watchFolderRemoveTool, WatchFolderRemoveTool(cfg))

	indexerGetStatusTool := mcp.NewTool("indexer_get_status",
		mcp.WithDescription("Get the aggregate indexing status across all watched roots."),
	)
	s.AddTool(indexerGetStatusTool, IndexerGetStatusTool(cfg))

	performanceGetTool := mcp.NewTool("performance_get",
		mcp.WithDescription("Get current Performance Manager settings (delay, batch size, batching enabled)."),
	)
	s.AddTool(performanceGetTool, PerformanceGetTool(cfg))

	performanceSetTool := mcp.NewTool("performance_set",
		mcp.WithDescription("Manually override Performance Manager settings; the mode changes only when the auto-mode argument is given."),
		mcp.WithNumber("delayMs", mcp.Description("Processing delay in milliseconds")),
		mcp.WithNumber("batchSize", mcp.Description("Batch size")),
		mcp.WithBoolean("enableBatching", mcp.Description("Whether batching is enabled")),
		mcp.WithBoolean("auto", mcp.Description("Set true to return to automatic mode")),
	)
	s.AddTool(performanceSetTool, PerformanceSetTool(cfg))

	return nil
}
