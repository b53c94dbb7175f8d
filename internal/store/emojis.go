package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertEmoji inserts or updates an emoji row by path (its unique
// character/shortcode identifier).
func (s *Store) UpsertEmoji(ctx context.Context, e Emoji) error {
	if e.Path == "" {
		return fmt.Errorf("%w: emoji path is required", ErrInvalidInput)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO emojis (path, char, name, isFavorite, favoriteAddedAt, favoriteSortOrder)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				char = excluded.char,
				name = excluded.name
		`, e.Path, e.Char, e.Name, boolToInt(e.IsFavorite), nullableInt64(e.FavoriteAddedAt), e.FavoriteSortOrder)
		if err != nil {
			return fmt.Errorf("%w: upsert emoji %s: %v", ErrStoreError, e.Path, err)
		}
		return nil
	})
}

// SetEmojiFavorite favorites or unfavorites an emoji, placing it at the end
// of the favorite ordering (highest favoriteSortOrder) when favorited.
func (s *Store) SetEmojiFavorite(ctx context.Context, path string, favorite bool, addedAt int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if !favorite {
			_, err := tx.ExecContext(ctx, `
				UPDATE emojis SET isFavorite = 0, favoriteAddedAt = NULL, favoriteSortOrder = 0 WHERE path = ?
			`, path)
			if err != nil {
				return fmt.Errorf("%w: unfavorite emoji %s: %v", ErrStoreError, path, err)
			}
			return nil
		}

		var maxOrder int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(favoriteSortOrder), 0) FROM emojis WHERE isFavorite = 1`).Scan(&maxOrder); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreError, err)
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE emojis SET isFavorite = 1, favoriteAddedAt = ?, favoriteSortOrder = ? WHERE path = ?
		`, addedAt, maxOrder+1, path)
		if err != nil {
			return fmt.Errorf("%w: favorite emoji %s: %v", ErrStoreError, path, err)
		}
		return nil
	})
}

// ListFavoriteEmojis returns favorited emojis ordered by their favorite
// sort position.
func (s *Store) ListFavoriteEmojis(ctx context.Context) ([]Emoji, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, char, name, isFavorite, favoriteAddedAt, favoriteSortOrder
		FROM emojis WHERE isFavorite = 1 ORDER BY favoriteSortOrder ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list_favorite_emojis: %w", err)
	}
	defer rows.Close()

	var out []Emoji
	for rows.Next() {
		e, err := scanEmoji(rows)
		if err != nil {
			return nil, fmt.Errorf("list_favorite_emojis: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetEmoji returns the emoji at path, or (nil, nil) if it does not exist.
func (s *Store) GetEmoji(ctx context.Context, path string) (*Emoji, error) {
	e, err := scanEmoji(s.db.QueryRowContext(ctx, `
		SELECT path, char, name, isFavorite, favoriteAddedAt, favoriteSortOrder FROM emojis WHERE path = ?
	`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_emoji %s: %w", path, err)
	}
	return e, nil
}

func scanEmoji(row interface{ Scan(...any) error }) (*Emoji, error) {
	var e Emoji
	var name sql.NullString
	var favoriteAddedAt sql.NullInt64
	var isFavorite int
	if err := row.Scan(&e.Path, &e.Char, &name, &isFavorite, &favoriteAddedAt, &e.FavoriteSortOrder); err != nil {
		return nil, err
	}
	e.Name = name.String
	e.FavoriteAddedAt = favoriteAddedAt.Int64
	e.IsFavorite = isFavorite != 0
	return &e, nil
}

func nullableInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
