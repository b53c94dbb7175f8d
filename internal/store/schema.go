package store

import (
	"context"
	"database/sql"
	"fmt"
)

// createSchema builds every table, index, and the all_items view inside one
// transaction, mirroring the ordering discipline of the cortex example's
// CreateSchema (tables first, in dependency order, then indexes, committed
// as a single unit) and the teacher's EnsureSchema in
// pkg/embeddings/sqlite/store.go.
//
// watched_folders has no foreign-key dependencies and is created first;
// folders and files reference it so that ON DELETE CASCADE (§3's CASCADE
// invariant) is enforced by SQLite itself rather than emulated in Go, per
// the design's note that CASCADE is delegated to the engine where supported.
//
// files carries a denormalized watched_folder_path column (not spelled out
// in the literal §6 column list, which only gives folders that column) so
// that removing a watched_folders row cascades to files as the spec's CASCADE
// invariant requires; see DESIGN.md for this documented schema addition.
func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	stmts := []string{
		createWatchedFoldersTable,
		createFoldersTable,
		createFilesTable,
		createApplicationsTable,
		createTagsTable,
		createFileTagsTable,
		createNotesTable,
		createEmojisTable,
	}
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema statement %d: %w", i, err)
		}
	}

	for i, idx := range schemaIndexes() {
		if _, err := tx.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, createAllItemsView); err != nil {
		return fmt.Errorf("create all_items view: %w", err)
	}

	return tx.Commit()
}

const createWatchedFoldersTable = `
CREATE TABLE IF NOT EXISTS watched_folders (
	path           TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	totalFiles     INTEGER NOT NULL DEFAULT 0,
	processedFiles INTEGER NOT NULL DEFAULT 0,
	lastIndexed    INTEGER,
	lastModified   INTEGER,
	depth          INTEGER NOT NULL DEFAULT -1
)`

const createFoldersTable = `
CREATE TABLE IF NOT EXISTS folders (
	path              TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	parentPath        TEXT,
	modifiedAt        INTEGER,
	indexedAt         INTEGER,
	directFileCount   INTEGER NOT NULL DEFAULT 0,
	directChildCount  INTEGER NOT NULL DEFAULT 0,
	totalFileCount    INTEGER NOT NULL DEFAULT 0,
	totalChildCount   INTEGER NOT NULL DEFAULT 0,
	watchedFolderPath TEXT REFERENCES watched_folders(path) ON DELETE CASCADE,
	isFavorite        INTEGER NOT NULL DEFAULT 0
)`

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	path              TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	folderPath        TEXT,
	size              INTEGER NOT NULL DEFAULT 0,
	modifiedAt        INTEGER,
	createdAt         INTEGER,
	accessedAt        INTEGER,
	indexedAt         INTEGER,
	mimeType          TEXT,
	sha256Hash        TEXT,
	fileType          TEXT,
	category          TEXT,
	watchedFolderPath TEXT REFERENCES watched_folders(path) ON DELETE CASCADE,
	isFavorite        INTEGER NOT NULL DEFAULT 0
)`

const createApplicationsTable = `
CREATE TABLE IF NOT EXISTS applications (
	path            TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	displayName     TEXT,
	description     TEXT,
	keywords        TEXT,
	categories      TEXT,
	icon            TEXT,
	lastUpdated     INTEGER,
	applicationType TEXT,
	isSystem        INTEGER NOT NULL DEFAULT 0,
	isCustomAdded   INTEGER NOT NULL DEFAULT 0,
	isFavorite      INTEGER NOT NULL DEFAULT 0,
	favoriteAddedAt INTEGER
)`

const createTagsTable = `
CREATE TABLE IF NOT EXISTS tags (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
)`

const createFileTagsTable = `
CREATE TABLE IF NOT EXISTS file_tags (
	file_path TEXT NOT NULL,
	tag_id    INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (file_path, tag_id)
)`

const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	target_path TEXT NOT NULL,
	target_type TEXT NOT NULL,
	content     TEXT NOT NULL,
	updated_at  INTEGER,
	UNIQUE(target_path, target_type)
)`

const createEmojisTable = `
CREATE TABLE IF NOT EXISTS emojis (
	path                TEXT PRIMARY KEY,
	char                TEXT NOT NULL,
	name                TEXT,
	isFavorite          INTEGER NOT NULL DEFAULT 0,
	favoriteAddedAt     INTEGER,
	favoriteSortOrder   INTEGER NOT NULL DEFAULT 0
)`

// createAllItemsView unifies files and folders into the ranking-friendly
// projection the Search Engine queries against (§3's all_items).
const createAllItemsView = `
CREATE VIEW IF NOT EXISTS all_items AS
	SELECT path, name, 'file' AS type, category, size, modifiedAt, isFavorite
	FROM files
	UNION ALL
	SELECT path, name, 'folder' AS type, NULL AS category, 0 AS size, modifiedAt, isFavorite
	FROM folders
`

func schemaIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_files_folder_path ON files(folderPath)",
		"CREATE INDEX IF NOT EXISTS idx_files_watched_folder_path ON files(watchedFolderPath)",
		"CREATE INDEX IF NOT EXISTS idx_files_name ON files(name)",
		"CREATE INDEX IF NOT EXISTS idx_files_category ON files(category)",
		"CREATE INDEX IF NOT EXISTS idx_files_modified_at ON files(modifiedAt)",
		"CREATE INDEX IF NOT EXISTS idx_folders_parent_path ON folders(parentPath)",
		"CREATE INDEX IF NOT EXISTS idx_folders_watched_folder_path ON folders(watchedFolderPath)",
		"CREATE INDEX IF NOT EXISTS idx_folders_name ON folders(name)",
		"CREATE INDEX IF NOT EXISTS idx_applications_name ON applications(name)",
		"CREATE INDEX IF NOT EXISTS idx_applications_display_name ON applications(displayName)",
		"CREATE INDEX IF NOT EXISTS idx_file_tags_tag_id ON file_tags(tag_id)",
		"CREATE INDEX IF NOT EXISTS idx_notes_target_path ON notes(target_path)",
	}
}
