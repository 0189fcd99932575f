// Package users содержит просмотр и удаление пользователей VPN.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/paging"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// CacheKey: ключ снимка списка пользователей в кеше.
const CacheKey = "users:all"

// Repository определяет методы хранилища пользователей.
type Repository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, userID int64) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции над пользователями. Кеш необязателен.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создаёт новый экземпляр Service. cache может быть nil.
func NewService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// List фильтрует пользователей по вхождению search в строковое представление user_id
// и возвращает страницу результата.
func (s *Service) List(ctx context.Context, search string, page, pageSize int) (models.Page[*models.User], error) {
	const op = "users.List"
	if pageSize < 1 {
		return models.Page[*models.User]{}, fmt.Errorf("%s: %w: page size must be positive", op, models.ErrInvalidInput)
	}

	all, err := s.loadAll(ctx)
	if err != nil {
		return models.Page[*models.User]{}, fmt.Errorf("%s: %w", op, err)
	}

	filtered := all
	if search != "" {
		filtered = make([]*models.User, 0, len(all))
		for _, u := range all {
			if strings.Contains(strconv.FormatInt(u.UserID, 10), search) {
				filtered = append(filtered, u)
			}
		}
	}

	w := paging.Compute(len(filtered), page, pageSize)
	return models.Page[*models.User]{
		Items:      paging.Slice(filtered, w),
		Page:       w.Page,
		TotalPages: w.TotalPages,
		Total:      len(filtered),
	}, nil
}

func (s *Service) loadAll(ctx context.Context) ([]*models.User, error) {
	if s.cache != nil {
		var cached []*models.User
		found, err := s.cache.Get(ctx, CacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read users from cache", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	all, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, CacheKey, all, s.ttl); err != nil {
			s.log.Warn("failed to cache users", sl.Err(err))
		}
	}
	return all, nil
}

// Delete удаляет пользователя вместе с его ссылками. Отсутствие пользователя
// не считается ошибкой.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	const op = "users.Delete"
	n, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)

	s.log.Info("user deleted", sl.Op(op), slog.Int64("user_id", userID), slog.Int("rows", n))
	return nil
}

// invalidate сбрасывает снимок списка пользователей.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, CacheKey); err != nil {
		s.log.Warn("failed to invalidate users cache", sl.Err(err))
	}
}
