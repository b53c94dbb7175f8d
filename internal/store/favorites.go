package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// favoriteTables lists, in probe order, the tables a favorites_add/remove
// path can target, and whether that table carries a favoriteAddedAt column
// (only applications and emojis do; files/folders just have isFavorite,
// §3). Applications and emojis are checked first since they are never
// ambiguous with a files/folders path; files then folders, mirroring
// inferNoteTargetType's probing order.
var favoriteTables = []struct {
	name       string
	hasAddedAt bool
}{
	{"applications", true},
	{"emojis", true},
	{"files", false},
	{"folders", false},
}

// SetFavorite sets is_favorite (and, where the table tracks it,
// favorite_added_at) for path, probing applications/emojis/files/folders in
// turn for the first table containing a matching row (§7 "favorites_add/
// remove").
func (s *Store) SetFavorite(ctx context.Context, path string, fav bool, nowMillis int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range favoriteTables {
			var exists int
			err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE path = ?`, table.name), path).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("%w: probe %s for %s: %v", ErrStoreError, table.name, path, err)
			}

			if table.hasAddedAt {
				var addedAt any
				if fav {
					addedAt = nowMillis
				}
				_, err = tx.ExecContext(ctx, fmt.Sprintf(
					`UPDATE %s SET isFavorite = ?, favoriteAddedAt = ? WHERE path = ?`, table.name),
					boolToInt(fav), addedAt, path)
			} else {
				_, err = tx.ExecContext(ctx, fmt.Sprintf(
					`UPDATE %s SET isFavorite = ? WHERE path = ?`, table.name),
					boolToInt(fav), path)
			}
			if err != nil {
				return fmt.Errorf("%w: set favorite %s: %v", ErrStoreError, path, err)
			}
			return nil
		}
		return fmt.Errorf("%w: no file, folder, application, or emoji at %s", ErrNotFound, path)
	})
}

// IsFavorite reports whether path is currently favorited, for
// favorites_batch_check; returns ErrNotFound if path matches no row.
func (s *Store) IsFavorite(ctx context.Context, path string) (bool, error) {
	for _, table := range favoriteTables {
		var isFav int
		err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT isFavorite FROM %s WHERE path = ?`, table.name), path).Scan(&isFav)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("%w: check favorite %s: %v", ErrStoreError, path, err)
		}
		return isFav != 0, nil
	}
	return false, fmt.Errorf("%w: %s", ErrNotFound, path)
}
