// Package sender уведомляет пользователя в Telegram о выданных ему ссылках.
// Сообщения приходят из очереди links_assigned_queue.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/metrics"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// Transport отправляет сообщение в чат пользователя.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Service обрабатывает события links.assigned.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// NewService создаёт новый экземпляр Service.
func NewService(transport Transport, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleLinksAssigned разбирает событие и отправляет пользователю его новые ссылки.
// Некорректное сообщение отбрасывается, ошибка доставки возвращается для повтора.
func (s *Service) HandleLinksAssigned(ctx context.Context, body []byte) error {
	const op = "sender.HandleLinksAssigned"
	var event models.LinksAssigned
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.NotificationsProcessed.WithLabelValues("malformed").Inc()
		s.log.Error("failed to unmarshal message body", sl.Op(op), sl.Err(err))
		return nil
	}
	if event.UserID == 0 || len(event.Addresses) == 0 {
		metrics.NotificationsProcessed.WithLabelValues("malformed").Inc()
		s.log.Warn("empty links assigned event", sl.Op(op), slog.Int64("user_id", event.UserID))
		return nil
	}

	if err := s.transport.SendMessage(ctx, event.UserID, FormatLinksMessage(event.Addresses)); err != nil {
		metrics.NotificationsProcessed.WithLabelValues(metrics.ResultFailed).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.NotificationsProcessed.WithLabelValues(metrics.ResultSent).Inc()
	s.log.Info("links notification sent", sl.Op(op),
		slog.Int64("user_id", event.UserID), slog.Int("links", len(event.Addresses)))
	return nil
}

// FormatLinksMessage собирает HTML-текст сообщения со ссылками.
func FormatLinksMessage(addresses []string) string {
	var b strings.Builder
	if len(addresses) == 1 {
		b.WriteString("<b>Ваша ссылка для подключения к VPN:</b>\n")
	} else {
		b.WriteString("<b>Ваши ссылки для подключения к VPN:</b>\n")
	}
	for _, a := range addresses {
		b.WriteString("\n<code>")
		b.WriteString(html.EscapeString(a))
		b.WriteString("</code>")
	}
	return b.String()
}
