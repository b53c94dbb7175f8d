package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetFileTags replaces the full tag set attached to filePath: tags not in
// names are detached, tags in names not yet present are attached, and any
// name that has no existing tags row is created on the fly. Tag rows are
// never deleted by this call even when they end up with zero files
// attached, since another file may reference the same tag concurrently.
func (s *Store) SetFileTags(ctx context.Context, filePath string, names []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM file_tags WHERE file_path = ?`, filePath); err != nil {
			return fmt.Errorf("%w: clear tags for %s: %v", ErrStoreError, filePath, err)
		}
		for _, name := range names {
			if name == "" {
				continue
			}
			id, err := ensureTag(ctx, tx, name)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO file_tags (file_path, tag_id) VALUES (?, ?)
				ON CONFLICT(file_path, tag_id) DO NOTHING
			`, filePath, id); err != nil {
				return fmt.Errorf("%w: attach tag %s to %s: %v", ErrStoreError, name, filePath, err)
			}
		}
		return nil
	})
}

// GetFileTags returns the tag names attached to filePath, alphabetically.
func (s *Store) GetFileTags(ctx context.Context, filePath string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN file_tags ft ON ft.tag_id = t.id
		WHERE ft.file_path = ?
		ORDER BY t.name
	`, filePath)
	if err != nil {
		return nil, fmt.Errorf("get_file_tags %s: %w", filePath, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListFilesByTag returns the paths of every file tagged with name.
func (s *Store) ListFilesByTag(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ft.file_path FROM file_tags ft
		JOIN tags t ON t.id = ft.tag_id
		WHERE t.name = ?
		ORDER BY ft.file_path
	`, name)
	if err != nil {
		return nil, fmt.Errorf("list_files_by_tag %s: %w", name, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func ensureTag(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: look up tag %s: %v", ErrStoreError, name, err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("%w: create tag %s: %v", ErrStoreError, name, err)
	}
	return res.LastInsertId()
}
