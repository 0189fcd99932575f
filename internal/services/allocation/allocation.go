// Package allocation выдаёт свободные ссылки пользователям. Непересекаемость выдачи
// обеспечивается блокировками строк в хранилище, а не мьютексами процесса.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/metrics"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// Repository определяет методы хранилища, нужные для выдачи ссылок.
type Repository interface {
	AssignFreeLinks(ctx context.Context, userID int64, count int) ([]*models.Link, error)
	FreeLinks(ctx context.Context, count int) ([]*models.Link, error)
}

// Publisher публикует события о выдаче ссылок.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service реализует выдачу ссылок.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// NewService создаёт новый экземпляр Service. publisher может быть nil.
func NewService(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// AssignOne выдаёт пользователю одну случайную свободную ссылку.
// Если свободных ссылок нет, возвращает nil без ошибки.
func (s *Service) AssignOne(ctx context.Context, userID int64) (*models.Link, error) {
	const op = "allocation.AssignOne"
	links, err := s.assign(ctx, op, userID, 1)
	if err != nil || links == nil {
		return nil, err
	}
	return links[0], nil
}

// AssignMany выдаёт пользователю ровно count ссылок либо ничего.
// Если свободных ссылок меньше count, возвращает nil без ошибки и ничего не меняет.
func (s *Service) AssignMany(ctx context.Context, userID int64, count int) ([]*models.Link, error) {
	const op = "allocation.AssignMany"
	if count < 1 {
		return nil, fmt.Errorf("%s: %w: count must be positive", op, models.ErrInvalidInput)
	}
	return s.assign(ctx, op, userID, count)
}

func (s *Service) assign(ctx context.Context, op string, userID int64, count int) ([]*models.Link, error) {
	log := s.log.With(sl.Op(op), slog.Int64("user_id", userID), slog.Int("count", count))

	links, err := s.repo.AssignFreeLinks(ctx, userID, count)
	if errors.Is(err, models.ErrInsufficientFreeLinks) {
		metrics.AllocationExhausted.Inc()
		log.Info("not enough free links")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.LinksAssigned.Add(float64(len(links)))
	log.Info("links assigned")
	s.notify(ctx, log, userID, links)
	return links, nil
}

// notify публикует событие о выдаче. Выдача уже зафиксирована, поэтому ошибка только логируется.
func (s *Service) notify(ctx context.Context, log *slog.Logger, userID int64, links []*models.Link) {
	if s.publisher == nil {
		return
	}
	event := models.LinksAssigned{
		UserID:    userID,
		Addresses: make([]string, 0, len(links)),
	}
	for _, l := range links {
		event.Addresses = append(event.Addresses, l.LinkAddress)
	}
	if err := s.publisher.Publish(ctx, rabbitmq.LinksAssignedRoutingKey, event); err != nil {
		log.Warn("failed to publish links assigned event", sl.Err(err))
	}
}

// FreeLinks возвращает до count случайных свободных ссылок без их выдачи.
func (s *Service) FreeLinks(ctx context.Context, count int) ([]*models.Link, error) {
	const op = "allocation.FreeLinks"
	if count < 1 {
		return nil, fmt.Errorf("%s: %w: count must be positive", op, models.ErrInvalidInput)
	}
	links, err := s.repo.FreeLinks(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return links, nil
}
