// Package broadcast рассылает одно сообщение списку пользователей через Telegram.
// Ошибка доставки одному получателю не прерывает рассылку остальным.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/metrics"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// Sender отправляет одно сообщение в чат.
type Sender interface {
	Configured() bool
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Options задаёт параметры рассылки.
type Options struct {
	// Timeout ограничивает отправку одному получателю.
	Timeout time.Duration
	// Workers: число одновременных отправок.
	Workers int
	// RateLimit: сообщений в секунду, 0 отключает ограничение.
	RateLimit float64
}

// Dispatcher выполняет рассылки.
type Dispatcher struct {
	sender  Sender
	opts    Options
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewDispatcher создаёт Dispatcher. Нулевые значения Options заменяются значениями по умолчанию.
func NewDispatcher(sender Sender, opts Options, log *slog.Logger) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
	}
	return &Dispatcher{
		sender:  sender,
		opts:    opts,
		limiter: limiter,
		log:     log,
	}
}

// Broadcast отправляет text каждому из userIDs. Порядок Errors совпадает с порядком userIDs.
// Без настроенного бота возвращает ErrExternalServiceUnavailable, ничего не отправляя.
func (d *Dispatcher) Broadcast(ctx context.Context, userIDs []int64, text string) (*models.BroadcastResult, error) {
	const op = "broadcast.Broadcast"
	if !d.sender.Configured() {
		return nil, fmt.Errorf("%s: %w: telegram bot token is not set", op, models.ErrExternalServiceUnavailable)
	}
	log := d.log.With(sl.Op(op), slog.Int("recipients", len(userIDs)))

	failures := make([]error, len(userIDs))
	g := new(errgroup.Group)
	g.SetLimit(d.opts.Workers)
	for i, userID := range userIDs {
		g.Go(func() error {
			failures[i] = d.sendOne(ctx, userID, text)
			return nil
		})
	}
	_ = g.Wait()

	result := &models.BroadcastResult{Errors: []models.RecipientError{}}
	for i, err := range failures {
		if err == nil {
			result.Sent++
			metrics.BroadcastMessages.WithLabelValues(metrics.ResultSent).Inc()
			continue
		}
		result.Failed++
		metrics.BroadcastMessages.WithLabelValues(metrics.ResultFailed).Inc()
		result.Errors = append(result.Errors, models.RecipientError{UserID: userIDs[i], Error: err.Error()})
		log.Warn("failed to deliver message", slog.Int64("user_id", userIDs[i]), sl.Err(err))
	}

	log.Info("broadcast finished", slog.Int("sent", result.Sent), slog.Int("failed", result.Failed))
	return result, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, userID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	return d.sender.SendMessage(ctx, userID, text)
}
