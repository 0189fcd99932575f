// Package links содержит бизнес-логику управления ссылками доступа: проверку
// адреса, CRUD и постраничный просмотр пула.
package links

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// MaxAddressLength: ограничение длины link_address в схеме.
const MaxAddressLength = 256

// Repository определяет методы хранилища ссылок.
type Repository interface {
	CreateLink(ctx context.Context, address string, userID *int64) (*models.Link, error)
	UpdateLink(ctx context.Context, id int64, address string, userID *int64) (*models.Link, error)
	DeleteLink(ctx context.Context, id int64) error
	GetLink(ctx context.Context, id int64) (*models.Link, error)
	PageLinks(ctx context.Context, filter models.LinkFilter, page, pageSize int) (models.Page[*models.Link], error)
}

// Service реализует операции над пулом ссылок.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создаёт новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: link_address is required", models.ErrInvalidInput)
	}
	if utf8.RuneCountInString(address) > MaxAddressLength {
		return "", fmt.Errorf("%w: link_address is longer than %d characters", models.ErrInvalidInput, MaxAddressLength)
	}
	return address, nil
}

// Create добавляет ссылку, свободную или сразу выданную пользователю.
func (s *Service) Create(ctx context.Context, req models.DummyLink) (*models.Link, error) {
	const op = "links.Create"
	address, err := normalizeAddress(req.LinkAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	link, err := s.repo.CreateLink(ctx, address, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("link created", sl.Op(op), slog.Int64("id", link.ID))
	return link, nil
}

// Update полностью заменяет адрес и владельца ссылки.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyLink) (*models.Link, error) {
	const op = "links.Update"
	address, err := normalizeAddress(req.LinkAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	link, err := s.repo.UpdateLink(ctx, id, address, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("link updated", sl.Op(op), slog.Int64("id", id))
	return link, nil
}

// Delete удаляет ссылку.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "links.Delete"
	if err := s.repo.DeleteLink(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("link deleted", sl.Op(op), slog.Int64("id", id))
	return nil
}

// Get возвращает ссылку по id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Link, error) {
	const op = "links.Get"
	link, err := s.repo.GetLink(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return link, nil
}

// List возвращает страницу ссылок. Номер страницы вне диапазона зажимается.
func (s *Service) List(ctx context.Context, filter models.LinkFilter, page, pageSize int) (models.Page[*models.Link], error) {
	const op = "links.List"
	if pageSize < 1 {
		return models.Page[*models.Link]{}, fmt.Errorf("%s: %w: page size must be positive", op, models.ErrInvalidInput)
	}
	result, err := s.repo.PageLinks(ctx, filter, page, pageSize)
	if err != nil {
		return models.Page[*models.Link]{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
