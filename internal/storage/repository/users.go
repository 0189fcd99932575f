package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// ListUsers возвращает всех пользователей, упорядоченных по user_id.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT user_id, user_name, end_date, end_trial_period
			  FROM users
			  ORDER BY user_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		var (
			u                 models.User
			userName          sql.NullString
			endDate, endTrial sql.NullTime
		)
		if err := rows.Scan(&u.UserID, &userName, &endDate, &endTrial); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if userName.Valid {
			u.UserName = &userName.String
		}
		if endDate.Valid {
			d := models.NewDate(endDate.Time)
			u.EndDate = &d
		}
		if endTrial.Valid {
			d := models.NewDate(endTrial.Time)
			u.EndTrialPeriod = &d
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUser удаляет пользователя и возвращает количество удалённых строк.
// Ссылки пользователя удаляются каскадно.
func (s *Storage) DeleteUser(ctx context.Context, userID int64) (int, error) {
	const op = "storage.DeleteUser"
	if err := ctxErr(ctx, op); err != nil {
		return 0, err
	}

	var affected int64
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
