package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/paging"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

const linkColumns = `id, link_address, user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*models.Link, error) {
	var (
		l      models.Link
		userID sql.NullInt64
	)
	if err := row.Scan(&l.ID, &l.LinkAddress, &userID); err != nil {
		return nil, err
	}
	if userID.Valid {
		l.UserID = &userID.Int64
	}
	return &l, nil
}

func nullableUserID(userID *int64) sql.NullInt64 {
	if userID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *userID, Valid: true}
}

// CreateLink добавляет ссылку и возвращает её с присвоенным id.
func (s *Storage) CreateLink(ctx context.Context, address string, userID *int64) (*models.Link, error) {
	const op = "storage.CreateLink"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	var link *models.Link
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		query := `INSERT INTO links (link_address, user_id)
				  VALUES ($1, $2)
				  RETURNING ` + linkColumns
		var err error
		link, err = scanLink(tx.QueryRowContext(ctx, query, address, nullableUserID(userID)))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return link, nil
}

// UpdateLink полностью заменяет адрес и владельца ссылки.
func (s *Storage) UpdateLink(ctx context.Context, id int64, address string, userID *int64) (*models.Link, error) {
	const op = "storage.UpdateLink"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	var link *models.Link
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		query := `UPDATE links
				  SET link_address = $1, user_id = $2
				  WHERE id = $3
				  RETURNING ` + linkColumns
		var err error
		link, err = scanLink(tx.QueryRowContext(ctx, query, address, nullableUserID(userID), id))
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return link, nil
}

// DeleteLink удаляет ссылку по id.
func (s *Storage) DeleteLink(ctx context.Context, id int64) error {
	const op = "storage.DeleteLink"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetLink возвращает ссылку по id.
func (s *Storage) GetLink(ctx context.Context, id int64) (*models.Link, error) {
	const op = "storage.GetLink"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	link, err := scanLink(s.DB.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return link, nil
}

const linkFilterClause = `WHERE ($1::BIGINT IS NULL OR user_id = $1)`

func countLinks(ctx context.Context, tx *sql.Tx, userID sql.NullInt64) (int, error) {
	var total int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM links `+linkFilterClause, userID).Scan(&total)
	return total, err
}

func selectLinks(ctx context.Context, tx *sql.Tx, userID sql.NullInt64, limit, offset int) ([]*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links ` + linkFilterClause + `
			  ORDER BY (user_id IS NOT NULL), id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := tx.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.Link, 0, limit)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, link)
	}
	return items, rows.Err()
}

var readOnlySnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// PageLinks возвращает страницу page размером pageSize. Свободные ссылки идут первыми,
// внутри группы по убыванию id. Номер страницы зажимается
// в [1, total_pages] по числу записей, посчитанному в той же транзакции.
func (s *Storage) PageLinks(ctx context.Context, filter models.LinkFilter, page, pageSize int) (models.Page[*models.Link], error) {
	const op = "storage.PageLinks"
	if err := ctxErr(ctx, op); err != nil {
		return models.Page[*models.Link]{}, err
	}

	var result models.Page[*models.Link]
	userID := nullableUserID(filter.UserID)
	err := s.withTx(ctx, readOnlySnapshot, func(tx *sql.Tx) error {
		total, err := countLinks(ctx, tx, userID)
		if err != nil {
			return err
		}
		w := paging.Compute(total, page, pageSize)
		items, err := selectLinks(ctx, tx, userID, w.Limit, w.Offset)
		if err != nil {
			return err
		}
		result = models.Page[*models.Link]{
			Items:      items,
			Page:       w.Page,
			TotalPages: w.TotalPages,
			Total:      total,
		}
		return nil
	})
	if err != nil {
		return models.Page[*models.Link]{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
