package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
)

// Handler обрабатывает тело одного сообщения.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage запускает потребителя очереди queueName, обрабатывая до workers
// сообщений одновременно. Сообщение с ошибкой возвращается в очередь один раз,
// при повторной ошибке отбрасывается.
// Возвращаемый канал закрывается, когда после отмены ctx завершились все начатые обработчики.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, workers int, log *slog.Logger, handler Handler) (<-chan struct{}, error) {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		consume(ctx, delivery, queueName, workers, log, handler)
	}()
	return done, nil
}

// consume раздаёт сообщения обработчикам и возвращается только после того,
// как отработали все запущенные обработчики.
func consume(ctx context.Context, delivery <-chan amqp.Delivery, queueName string, workers int, log *slog.Logger, handler Handler) {
	sem := make(chan struct{}, max(workers, 1))
	var wg sync.WaitGroup
	defer wg.Wait()

	// начатые обработчики доводят сообщение до ack даже после отмены
	handlerCtx := context.WithoutCancel(ctx)
	for {
		var d amqp.Delivery
		select {
		case msg, ok := <-delivery:
			if !ok {
				return
			}
			d = msg
		case <-ctx.Done():
			return
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			if err := d.Nack(false, true); err != nil {
				log.Error("failed to return message to queue", sl.Err(err))
			}
			return
		}

		wg.Add(1)
		go func(d amqp.Delivery) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := handler(handlerCtx, d.Body); err != nil {
				log.Warn("failed to handle message",
					slog.String("queue", queueName),
					slog.Bool("redelivered", d.Redelivered),
					sl.Err(err))
				if nackErr := d.Nack(false, !d.Redelivered); nackErr != nil {
					log.Error("failed to nack message", sl.Err(nackErr))
				}
				return
			}
			if ackErr := d.Ack(false); ackErr != nil {
				log.Error("failed to ack message", sl.Err(ackErr))
			}
		}(d)
	}
}
