package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// UpsertFile inserts or updates a row by path. file_data's keys are a subset
// of the File columns (fileColumns); nested map/slice values are JSON-
// encoded before storage (§4.1). Fails with InvalidFileDataError if data is
// empty or contains no recognized column.
func (s *Store) UpsertFile(ctx context.Context, path string, data FileData) error {
	if path == "" {
		return &InvalidFileDataError{Reason: "path is required"}
	}
	if len(data) == 0 {
		return &InvalidFileDataError{Reason: "empty file data"}
	}

	cols, vals, err := prepareFileColumns(path, data)
	if err != nil {
		return err
	}
	if len(cols) <= 1 { // only "path" survived the whitelist
		return &InvalidFileDataError{Reason: "no recognized columns in file data"}
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		return execUpsertFile(ctx, tx, cols, vals)
	})
	if err != nil {
		return err
	}

	s.cache.Delete(path)
	return nil
}

// BatchUpsertFiles runs every item's upsert inside a single transaction.
// Per-item validation failures are collected into the returned error map
// without aborting the batch; a genuine transactional failure (commit
// error) rolls back the whole batch and none of it becomes visible (§8
// "batch atomicity").
func (s *Store) BatchUpsertFiles(ctx context.Context, items map[string]FileData) (successCount int, itemErrs map[string]error, err error) {
	itemErrs = make(map[string]error)

	txErr := s.withTx(ctx, func(tx *sql.Tx) error {
		for path, data := range items {
			if path == "" {
				itemErrs[path] = &InvalidFileDataError{Reason: "path is required"}
				continue
			}
			if len(data) == 0 {
				itemErrs[path] = &InvalidFileDataError{Reason: "empty file data"}
				continue
			}
			cols, vals, perr := prepareFileColumns(path, data)
			if perr != nil {
				itemErrs[path] = perr
				continue
			}
			if len(cols) <= 1 {
				itemErrs[path] = &InvalidFileDataError{Reason: "no recognized columns in file data"}
				continue
			}
			if execErr := execUpsertFile(ctx, tx, cols, vals); execErr != nil {
				return fmt.Errorf("%w: upsert %s: %v", ErrStoreError, path, execErr)
			}
			successCount++
		}
		return nil
	})
	if txErr != nil {
		return 0, itemErrs, txErr
	}

	for path := range items {
		if _, failed := itemErrs[path]; !failed {
			s.cache.Delete(path)
		}
	}
	return successCount, itemErrs, nil
}

// prepareFileColumns filters data down to recognized File columns (always
// including path), JSON-encoding any map/slice value and normalizing bools
// to 0/1 for the INTEGER columns.
func prepareFileColumns(path string, data FileData) (cols []string, vals []any, err error) {
	allowed := make(map[string]bool, len(fileColumns))
	for _, c := range fileColumns {
		allowed[c] = true
	}

	cols = append(cols, "path")
	vals = append(vals, path)

	for _, c := range fileColumns {
		if c == "path" {
			continue
		}
		v, ok := data[c]
		if !ok {
			continue
		}
		encoded, eerr := encodeValue(v)
		if eerr != nil {
			return nil, nil, &InvalidFileDataError{Reason: fmt.Sprintf("column %s: %v", c, eerr)}
		}
		cols = append(cols, c)
		vals = append(vals, encoded)
	}
	return cols, vals, nil
}

func execUpsertFile(ctx context.Context, tx *sql.Tx, cols []string, vals []any) error {
	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols))
	for i, c := range cols {
		placeholders[i] = "?"
		if c != "path" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	query := fmt.Sprintf(
		`INSERT INTO files (%s) VALUES (%s) ON CONFLICT(path) DO UPDATE SET %s`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "),
	)
	_, err := tx.ExecContext(ctx, query, vals...)
	return err
}

const selectFileColumns = `path, name, folderPath, size, modifiedAt, createdAt, accessedAt, indexedAt, mimeType, sha256Hash, fileType, category, watchedFolderPath, isFavorite`

func scanFile(row interface{ Scan(...any) error }) (*File, error) {
	var f File
	var folderPath, mimeType, sha, fileType, category, watchedFolderPath sql.NullString
	var modifiedAt, createdAt, accessedAt, indexedAt sql.NullInt64
	var isFavorite int
	err := row.Scan(&f.Path, &f.Name, &folderPath, &f.Size, &modifiedAt, &createdAt, &accessedAt, &indexedAt,
		&mimeType, &sha, &fileType, &category, &watchedFolderPath, &isFavorite)
	if err != nil {
		return nil, err
	}
	f.FolderPath = folderPath.String
	f.ModifiedAt = modifiedAt.Int64
	f.CreatedAt = createdAt.Int64
	f.AccessedAt = accessedAt.Int64
	f.IndexedAt = indexedAt.Int64
	f.MimeType = mimeType.String
	f.SHA256Hash = sha.String
	f.FileType = fileType.String
	f.Category = category.String
	f.WatchedFolderPath = watchedFolderPath.String
	f.IsFavorite = isFavorite != 0
	return &f, nil
}

// GetFile returns the row for path, or (nil, nil) if not found.
func (s *Store) GetFile(ctx context.Context, path string) (*File, error) {
	stmt, err := s.stmt(ctx, "get_file", `SELECT `+selectFileColumns+` FROM files WHERE path = ?`)
	if err != nil {
		return nil, err
	}
	f, err := scanFile(stmt.QueryRowContext(ctx, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_file %s: %w", path, err)
	}
	return f, nil
}

// GetFileWithMetadata returns the file row plus its tags and note content.
func (s *Store) GetFileWithMetadata(ctx context.Context, path string) (*FileWithMetadata, error) {
	f, err := s.GetFile(ctx, path)
	if err != nil || f == nil {
		return nil, err
	}
	out := &FileWithMetadata{File: *f}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN file_tags ft ON ft.tag_id = t.id
		WHERE ft.file_path = ?
		ORDER BY t.name
	`, path)
	if err != nil {
		return nil, fmt.Errorf("get_file_with_metadata tags %s: %w", path, err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var name string
		if err := tagRows.Scan(&name); err != nil {
			return nil, err
		}
		out.Tags = append(out.Tags, name)
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	var content string
	err = s.db.QueryRowContext(ctx, `SELECT content FROM notes WHERE target_path = ? AND target_type = 'file'`, path).Scan(&content)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get_file_with_metadata notes %s: %w", path, err)
	}
	out.Notes = content

	return out, nil
}

// GetFileData returns the row at path as a loosely-typed FileData mapping,
// JSON-decoding any column whose stored value looks like JSON, the read-side
// half of upsert_file's round-trip fidelity contract (§4.1). Returns (nil,
// nil) if path is not found.
func (s *Store) GetFileData(ctx context.Context, path string) (FileData, error) {
	cols := fileColumns[1:] // path is the lookup key, not part of the returned mapping
	row := s.db.QueryRowContext(ctx, `SELECT `+strings.Join(cols, ", ")+` FROM files WHERE path = ?`, path)

	vals := make([]sql.NullString, len(cols))
	scanTargets := make([]any, len(cols))
	for i := range vals {
		scanTargets[i] = &vals[i]
	}
	if err := row.Scan(scanTargets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get_file_data %s: %w", path, err)
	}

	out := make(FileData, len(cols))
	for i, c := range cols {
		if !vals[i].Valid {
			continue
		}
		out[c] = decodeValue(vals[i].String)
	}
	return out, nil
}

// GetCachedFile consults the LRU+TTL cache before hitting the store; a miss
// populates the cache (§4.1, §8 "cache coherence").
func (s *Store) GetCachedFile(ctx context.Context, path string) (*File, error) {
	if v, ok := s.cache.Get(path); ok {
		if v == nil {
			return nil, nil
		}
		f := v.(*File)
		return f, nil
	}
	f, err := s.GetFile(ctx, path)
	if err != nil {
		return nil, err
	}
	s.cache.Set(path, f)
	return f, nil
}

// ListAllFilePaths returns every indexed file path, for the orphan cleanup
// sweep (§4.5 "cleanup_orphaned_database_entries").
func (s *Store) ListAllFilePaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files`)
	if err != nil {
		return nil, fmt.Errorf("%w: list file paths: %v", ErrStoreError, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%w: scan file path: %v", ErrStoreError, err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// RemovePath deletes files with path = ? OR folder_path = ?, then deletes
// folder rows whose subtree is now empty, walking upward while each
// ancestor becomes empty in turn. The walk starts at path's own folder row,
// or at its parent folder when path has no folder row (a file). Notes are
// preserved (§4.1). Cache keys
// with path as a prefix are invalidated.
func (s *Store) RemovePath(ctx context.Context, path string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE path = ? OR folderPath = ?`, path, path); err != nil {
			return fmt.Errorf("%w: delete files under %s: %v", ErrStoreError, path, err)
		}

		current := path
		for current != "" {
			folder, err := folderRow(ctx, tx, current)
			if err != nil {
				return fmt.Errorf("%w: read folder %s: %v", ErrStoreError, current, err)
			}
			if folder == nil {
				parent := filepath.Dir(current)
				if current != path || parent == current {
					break
				}
				current = parent
				continue
			}

			empty, err := folderSubtreeEmpty(ctx, tx, current)
			if err != nil {
				return fmt.Errorf("%w: check folder %s: %v", ErrStoreError, current, err)
			}
			if !empty {
				break
			}

			if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE path = ?`, current); err != nil {
				return fmt.Errorf("%w: delete folder %s: %v", ErrStoreError, current, err)
			}

			if folder.ParentPath == "" || folder.ParentPath == current {
				break
			}
			current = folder.ParentPath
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.DeleteByPrefix(path)
	return nil
}

func folderRow(ctx context.Context, tx *sql.Tx, path string) (*Folder, error) {
	var f Folder
	var parentPath, watchedFolderPath sql.NullString
	var modifiedAt, indexedAt sql.NullInt64
	var isFavorite int
	err := tx.QueryRowContext(ctx, `
		SELECT path, name, parentPath, modifiedAt, indexedAt, directFileCount, directChildCount,
		       totalFileCount, totalChildCount, watchedFolderPath, isFavorite
		FROM folders WHERE path = ?
	`, path).Scan(&f.Path, &f.Name, &parentPath, &modifiedAt, &indexedAt, &f.DirectFileCount, &f.DirectChildCount,
		&f.TotalFileCount, &f.TotalChildCount, &watchedFolderPath, &isFavorite)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.ParentPath = parentPath.String
	f.ModifiedAt = modifiedAt.Int64
	f.IndexedAt = indexedAt.Int64
	f.WatchedFolderPath = watchedFolderPath.String
	f.IsFavorite = isFavorite != 0
	return &f, nil
}

func folderSubtreeEmpty(ctx context.Context, tx *sql.Tx, path string) (bool, error) {
	var fileCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE folderPath = ?`, path).Scan(&fileCount); err != nil {
		return false, err
	}
	if fileCount > 0 {
		return false, nil
	}
	var childCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders WHERE parentPath = ?`, path).Scan(&childCount); err != nil {
		return false, err
	}
	return childCount == 0, nil
}

// encodeValue JSON-encodes map/slice values for storage in a TEXT column;
// bools are normalized to 0/1 for INTEGER columns; everything else passes
// through unchanged.
func encodeValue(v any) (any, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case map[string]any, []any, []string:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return v, nil
	}
}

// decodeValue decodes a string value that looks like JSON (leading '{' or
// '[') into its dynamic representation; everything else passes through
// unchanged. This is the read-side half of the round-trip-fidelity contract
// in §4.1.
func decodeValue(v any) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return v
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return v
	}
	return decoded
}
