package store

import (
	"context"
	"database/sql"
	"fmt"
)

// UpsertFolder inserts or updates a folder row by path, idempotent on
// modifiedAt: a call whose modifiedAt does not advance the stored value
// still succeeds but leaves counts untouched, since those are only
// recomputed by UpdateFolderCounts (§4.1 "update_folder is idempotent by
// modifiedAt").
func (s *Store) UpsertFolder(ctx context.Context, f Folder) error {
	if f.Path == "" {
		return fmt.Errorf("%w: folder path is required", ErrInvalidInput)
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO folders (path, name, parentPath, modifiedAt, indexedAt, watchedFolderPath, isFavorite)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				name = excluded.name,
				parentPath = excluded.parentPath,
				indexedAt = excluded.indexedAt,
				watchedFolderPath = excluded.watchedFolderPath,
				modifiedAt = CASE WHEN excluded.modifiedAt > folders.modifiedAt THEN excluded.modifiedAt ELSE folders.modifiedAt END
		`, f.Path, f.Name, nullableString(f.ParentPath), f.ModifiedAt, f.IndexedAt, nullableString(f.WatchedFolderPath), boolToInt(f.IsFavorite))
		if err != nil {
			return fmt.Errorf("%w: upsert folder %s: %v", ErrStoreError, f.Path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Delete(f.Path)
	return nil
}

// GetFolder returns the folder at path, or (nil, nil) if it does not exist.
func (s *Store) GetFolder(ctx context.Context, path string) (*Folder, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreError, err)
	}
	defer tx.Rollback()

	f, err := folderRow(ctx, tx, path)
	if err != nil {
		return nil, fmt.Errorf("get_folder %s: %w", path, err)
	}
	return f, nil
}

// UpdateFolderCounts recomputes directFileCount, directChildCount,
// totalFileCount and totalChildCount for path and every ancestor above it,
// walking bottom-up so a parent's totals always reflect its children's
// freshly recomputed totals (§4.1 "update_folder_counts is recursive,
// bottom-up").
func (s *Store) UpdateFolderCounts(ctx context.Context, path string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current := path
		for current != "" {
			folder, err := folderRow(ctx, tx, current)
			if err != nil {
				return fmt.Errorf("%w: read folder %s: %v", ErrStoreError, current, err)
			}
			if folder == nil {
				return nil
			}

			var directFiles, directChildren int64
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE folderPath = ?`, current).Scan(&directFiles); err != nil {
				return fmt.Errorf("%w: count direct files %s: %v", ErrStoreError, current, err)
			}
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders WHERE parentPath = ?`, current).Scan(&directChildren); err != nil {
				return fmt.Errorf("%w: count direct children %s: %v", ErrStoreError, current, err)
			}

			var totalFiles, totalChildren int64
			if err := tx.QueryRowContext(ctx, `
				SELECT COALESCE(SUM(totalFileCount), 0) FROM folders WHERE parentPath = ?
			`, current).Scan(&totalFiles); err != nil {
				return fmt.Errorf("%w: sum child file totals %s: %v", ErrStoreError, current, err)
			}
			totalFiles += directFiles

			if err := tx.QueryRowContext(ctx, `
				SELECT COALESCE(SUM(totalChildCount), 0) FROM folders WHERE parentPath = ?
			`, current).Scan(&totalChildren); err != nil {
				return fmt.Errorf("%w: sum child folder totals %s: %v", ErrStoreError, current, err)
			}
			totalChildren += directChildren

			if _, err := tx.ExecContext(ctx, `
				UPDATE folders SET directFileCount = ?, directChildCount = ?, totalFileCount = ?, totalChildCount = ?
				WHERE path = ?
			`, directFiles, directChildren, totalFiles, totalChildren, current); err != nil {
				return fmt.Errorf("%w: update counts %s: %v", ErrStoreError, current, err)
			}

			if folder.ParentPath == "" || folder.ParentPath == current {
				return nil
			}
			current = folder.ParentPath
		}
		return nil
	})
	return err
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
