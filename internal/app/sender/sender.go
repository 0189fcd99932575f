// Package sender поднимает процесс, который читает события о выдаче ссылок
// из RabbitMQ и отправляет пользователям их ссылки через Telegram-бота.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/vpn-dashboard/internal/config"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	senderservice "github.com/magabrotheeeer/vpn-dashboard/internal/services/sender"
	"github.com/magabrotheeeer/vpn-dashboard/internal/telegram"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	workers       int
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("sender.New: rabbitmq url is not set")
	}
	tgClient := telegram.New(cfg.Telegram, &http.Client{Timeout: cfg.Telegram.Timeout})
	if !tgClient.Configured() {
		return nil, errors.New("sender.New: telegram bot token is not set")
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewService(tgClient, logger),
		workers:       cfg.Broadcast.Workers,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	consumed, err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.LinksAssignedQueue, a.workers, a.logger, a.senderService.HandleLinksAssigned)
	if err != nil {
		a.logger.Error("failed to start links_assigned_queue consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")
	<-consumed

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
