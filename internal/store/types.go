package store

// File mirrors the files table (§3/§6).
type File struct {
	Path              string
	Name              string
	FolderPath        string
	Size              int64
	ModifiedAt        int64
	CreatedAt         int64
	AccessedAt        int64
	IndexedAt         int64
	MimeType          string
	SHA256Hash        string
	FileType          string
	Category          string
	WatchedFolderPath string
	IsFavorite        bool
}

// FileWithMetadata augments File with its tags and note content, the shape
// get_file_with_metadata returns.
type FileWithMetadata struct {
	File
	Tags  []string
	Notes string
}

// Folder mirrors the folders table (§3/§6).
type Folder struct {
	Path              string
	Name              string
	ParentPath        string
	ModifiedAt        int64
	IndexedAt         int64
	DirectFileCount   int64
	DirectChildCount  int64
	TotalFileCount    int64
	TotalChildCount   int64
	WatchedFolderPath string
	IsFavorite        bool
}

// WatchedFolder mirrors the watched_folders table.
type WatchedFolder struct {
	Path          string
	Name          string
	TotalFiles    int64
	ProcessedFiles int64
	LastIndexed   int64
	LastModified  int64
	Depth         int // -1 denotes unlimited depth (the spec's "∞ by convention").
}

// UnlimitedDepth is the sentinel used for "∞ by convention" watched-folder
// depth (§3 WatchedFolder).
const UnlimitedDepth = -1

// Application mirrors the applications table.
type Application struct {
	Path            string
	Name            string
	DisplayName     string
	Description     string
	Keywords        []string
	Categories      []string
	Icon            string
	LastUpdated     int64
	ApplicationType string
	IsSystem        bool
	IsCustomAdded   bool
	IsFavorite      bool
	FavoriteAddedAt int64
}

// Tag mirrors the tags table.
type Tag struct {
	ID   int64
	Name string
}

// Note mirrors the notes table. TargetType is one of "file", "folder", "emoji".
type Note struct {
	TargetPath string
	TargetType string
	Content    string
	UpdatedAt  int64
}

// Emoji mirrors the emojis table.
type Emoji struct {
	Path              string
	Char              string
	Name              string
	IsFavorite        bool
	FavoriteAddedAt   int64
	FavoriteSortOrder int
}

// Item is a row from the all_items view (§3), the common shape the Search
// Engine ranks over.
type Item struct {
	Path       string
	Name       string
	Type       string // "file" or "folder"
	Category   string
	Size       int64
	ModifiedAt int64
	IsFavorite bool
	Rank       int // populated by Search Engine queries; not persisted.
}

// FileData is the loosely-typed mapping upsert_file/batch_upsert_files
// accept, whose keys are a subset of File's columns (§4.1). Values that are
// maps or slices are JSON-encoded before storage.
type FileData map[string]any

// fileColumns is the whitelist of columns upsert_file/batch_upsert_files may
// write, in insertion order, matching the column order in schema.go.
var fileColumns = []string{
	"path", "name", "folderPath", "size", "modifiedAt", "createdAt",
	"accessedAt", "indexedAt", "mimeType", "sha256Hash", "fileType",
	"category", "watchedFolderPath", "isFavorite",
}
