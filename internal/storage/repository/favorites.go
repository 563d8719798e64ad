package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/dramabox/internal/models"
)

// ListFavorites возвращает избранные драмы в порядке добавления.
func (s *Storage) ListFavorites(ctx context.Context, ownerKey string) ([]models.Drama, error) {
	const op = "storage.ListFavorites"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT drama FROM favorites WHERE owner_key = $1 ORDER BY seq`, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]models.Drama, 0)
	for rows.Next() {
		var (
			doc   []byte
			drama models.Drama
		)
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(doc, &drama); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, drama)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// AddFavorite сохраняет снимок драмы. Повторное добавление ничего не меняет
// и возвращает false.
func (s *Storage) AddFavorite(ctx context.Context, ownerKey string, drama models.Drama) (bool, error) {
	const op = "storage.AddFavorite"

	doc, err := json.Marshal(drama)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO favorites (owner_key, book_id, drama) VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT DO NOTHING`, ownerKey, drama.BookID, doc)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// RemoveFavorite убирает драму из избранного. false, если её там не было.
func (s *Storage) RemoveFavorite(ctx context.Context, ownerKey, bookID string) (bool, error) {
	const op = "storage.RemoveFavorite"

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM favorites WHERE owner_key = $1 AND book_id = $2`, ownerKey, bookID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// IsFavorite сообщает, есть ли драма в избранном.
func (s *Storage) IsFavorite(ctx context.Context, ownerKey, bookID string) (bool, error) {
	const op = "storage.IsFavorite"

	var ok bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE owner_key = $1 AND book_id = $2)`,
		ownerKey, bookID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}
