package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddWatchedFolder registers path as a watched root. Overlap detection
// against existing roots is the Index Controller's responsibility (§4.3);
// the store only enforces the path's uniqueness as primary key.
func (s *Store) AddWatchedFolder(ctx context.Context, wf WatchedFolder) error {
	if wf.Path == "" {
		return fmt.Errorf("%w: watched folder path is required", ErrInvalidInput)
	}
	if wf.Depth == 0 {
		wf.Depth = UnlimitedDepth
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO watched_folders (path, name, totalFiles, processedFiles, lastIndexed, lastModified, depth)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				name = excluded.name,
				depth = excluded.depth
		`, wf.Path, wf.Name, wf.TotalFiles, wf.ProcessedFiles, wf.LastIndexed, wf.LastModified, wf.Depth)
		if err != nil {
			return fmt.Errorf("%w: add watched folder %s: %v", ErrStoreError, wf.Path, err)
		}
		return nil
	})
}

// RemoveWatchedFolder deletes the watched_folders row at path. Its folders
// and files rows cascade via ON DELETE CASCADE; notes referencing those
// paths are preserved, matching RemovePath's contract.
func (s *Store) RemoveWatchedFolder(ctx context.Context, path string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM watched_folders WHERE path = ?`, path)
		if err != nil {
			return fmt.Errorf("%w: remove watched folder %s: %v", ErrStoreError, path, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreError, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: watched folder %s", ErrNotFound, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.DeleteByPrefix(path)
	return nil
}

// GetWatchedFolder returns the watched folder at path, or (nil, nil) if it
// is not registered.
func (s *Store) GetWatchedFolder(ctx context.Context, path string) (*WatchedFolder, error) {
	wf, err := scanWatchedFolder(s.db.QueryRowContext(ctx, `
		SELECT path, name, totalFiles, processedFiles, lastIndexed, lastModified, depth
		FROM watched_folders WHERE path = ?
	`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_watched_folder %s: %w", path, err)
	}
	return wf, nil
}

// ListWatchedFolders returns every registered watched root.
func (s *Store) ListWatchedFolders(ctx context.Context) ([]WatchedFolder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, name, totalFiles, processedFiles, lastIndexed, lastModified, depth
		FROM watched_folders ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("list_watched_folders: %w", err)
	}
	defer rows.Close()

	var out []WatchedFolder
	for rows.Next() {
		wf, err := scanWatchedFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("list_watched_folders: %w", err)
		}
		out = append(out, *wf)
	}
	return out, rows.Err()
}

// UpdateWatchedFolderProgress updates the processed/total file counters and
// timestamps reported during an initial scan or rescan (§4.3).
func (s *Store) UpdateWatchedFolderProgress(ctx context.Context, path string, totalFiles, processedFiles, lastIndexed, lastModified int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE watched_folders SET totalFiles = ?, processedFiles = ?, lastIndexed = ?, lastModified = ?
			WHERE path = ?
		`, totalFiles, processedFiles, lastIndexed, lastModified, path)
		if err != nil {
			return fmt.Errorf("%w: update watched folder progress %s: %v", ErrStoreError, path, err)
		}
		return nil
	})
}

func scanWatchedFolder(row interface{ Scan(...any) error }) (*WatchedFolder, error) {
	var wf WatchedFolder
	var lastIndexed, lastModified sql.NullInt64
	if err := row.Scan(&wf.Path, &wf.Name, &wf.TotalFiles, &wf.ProcessedFiles, &lastIndexed, &lastModified, &wf.Depth); err != nil {
		return nil, err
	}
	wf.LastIndexed = lastIndexed.Int64
	wf.LastModified = lastModified.Int64
	return &wf, nil
}
