package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetNote attaches a note to targetPath, or removes it when content is
// empty (§4.1/§4.5 "set_note upserts, or deletes when content is empty").
// The target type is inferred by probing files, then folders, then emojis,
// in that order, since a path can only plausibly belong to one of the
// three; if none already has a row for it, it is treated as an emoji note
// and a bare emojis row is created for it on the fly (an emoji note with no
// prior favorite/character metadata is still a valid target, e.g.
// annotating an emoji before ever favoriting it).
func (s *Store) SetNote(ctx context.Context, targetPath, content string, updatedAt int64) error {
	if targetPath == "" {
		return fmt.Errorf("%w: note target path is required", ErrInvalidInput)
	}
	if content == "" {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE target_path = ?`, targetPath); err != nil {
				return fmt.Errorf("%w: delete note %s: %v", ErrStoreError, targetPath, err)
			}
			return nil
		})
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		targetType, err := inferNoteTargetType(ctx, tx, targetPath)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notes (target_path, target_type, content, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(target_path, target_type) DO UPDATE SET
				content = excluded.content,
				updated_at = excluded.updated_at
		`, targetPath, targetType, content, updatedAt)
		if err != nil {
			return fmt.Errorf("%w: set note %s: %v", ErrStoreError, targetPath, err)
		}
		return nil
	})
}

func inferNoteTargetType(ctx context.Context, tx *sql.Tx, targetPath string) (string, error) {
	var exists int

	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM files WHERE path = ?`, targetPath).Scan(&exists); err == nil {
		return "file", nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: probe files for %s: %v", ErrStoreError, targetPath, err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM folders WHERE path = ?`, targetPath).Scan(&exists); err == nil {
		return "folder", nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: probe folders for %s: %v", ErrStoreError, targetPath, err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM emojis WHERE path = ?`, targetPath).Scan(&exists); err == nil {
		return "emoji", nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: probe emojis for %s: %v", ErrStoreError, targetPath, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO emojis (path, char, name, isFavorite, favoriteAddedAt, favoriteSortOrder)
		VALUES (?, ?, '', 0, NULL, 0)
	`, targetPath, targetPath); err != nil {
		return "", fmt.Errorf("%w: auto-create emoji for note %s: %v", ErrStoreError, targetPath, err)
	}
	return "emoji", nil
}

// GetNote returns the note content for targetPath, or ("", false, nil) if
// none exists.
func (s *Store) GetNote(ctx context.Context, targetPath string) (string, bool, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM notes WHERE target_path = ?`, targetPath).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get_note %s: %w", targetPath, err)
	}
	return content, true, nil
}

// GetOrphanedNotes returns notes whose target no longer has a corresponding
// files/folders/emojis row, e.g. left behind after a file was removed by
// RemovePath (which deliberately preserves notes).
func (s *Store) GetOrphanedNotes(ctx context.Context) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.target_path, n.target_type, n.content, n.updated_at
		FROM notes n
		WHERE
			(n.target_type = 'file' AND NOT EXISTS (SELECT 1 FROM files f WHERE f.path = n.target_path))
			OR (n.target_type = 'folder' AND NOT EXISTS (SELECT 1 FROM folders fo WHERE fo.path = n.target_path))
			OR (n.target_type = 'emoji' AND NOT EXISTS (SELECT 1 FROM emojis e WHERE e.path = n.target_path))
		ORDER BY n.target_path
	`)
	if err != nil {
		return nil, fmt.Errorf("get_orphaned_notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		var updatedAt sql.NullInt64
		if err := rows.Scan(&n.TargetPath, &n.TargetType, &n.Content, &updatedAt); err != nil {
			return nil, fmt.Errorf("get_orphaned_notes: %w", err)
		}
		n.UpdatedAt = updatedAt.Int64
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteNote removes a note by its target path and type.
func (s *Store) DeleteNote(ctx context.Context, targetPath, targetType string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE target_path = ? AND target_type = ?`, targetPath, targetType)
		if err != nil {
			return fmt.Errorf("%w: delete note %s: %v", ErrStoreError, targetPath, err)
		}
		return nil
	})
}
