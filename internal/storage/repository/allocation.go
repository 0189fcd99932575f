package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// AssignFreeLinks выдаёт пользователю count случайных свободных ссылок по принципу «всё или ничего».
// Строки блокируются FOR UPDATE SKIP LOCKED, поэтому конкурентные вызовы получают непересекающиеся наборы.
// Если свободных ссылок меньше count, ничего не меняется и возвращается ErrInsufficientFreeLinks.
func (s *Storage) AssignFreeLinks(ctx context.Context, userID int64, count int) ([]*models.Link, error) {
	const op = "storage.AssignFreeLinks"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidInput)
	}

	var assigned []*models.Link
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		selectQuery := `SELECT id FROM links
						WHERE user_id IS NULL
						ORDER BY random()
						LIMIT $1
						FOR UPDATE SKIP LOCKED`
		rows, err := tx.QueryContext(ctx, selectQuery, count)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, count)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				_ = rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if len(ids) < count {
			return models.ErrInsufficientFreeLinks
		}

		updateQuery := `UPDATE links SET user_id = $1
						WHERE id = ANY($2) AND user_id IS NULL
						RETURNING ` + linkColumns
		rows, err = tx.QueryContext(ctx, updateQuery, userID, ids)
		if err != nil {
			return err
		}
		defer rows.Close()

		assigned = make([]*models.Link, 0, count)
		for rows.Next() {
			link, err := scanLink(rows)
			if err != nil {
				return err
			}
			assigned = append(assigned, link)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(assigned) < len(ids) {
			return models.ErrInsufficientFreeLinks
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return assigned, nil
}

// FreeLinks возвращает до count случайных свободных ссылок без изменения данных.
func (s *Storage) FreeLinks(ctx context.Context, count int) ([]*models.Link, error) {
	const op = "storage.FreeLinks"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + linkColumns + ` FROM links
			  WHERE user_id IS NULL
			  ORDER BY random()
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Link, 0, count)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
