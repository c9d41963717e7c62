package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/blog-platform/internal/lib/sl"
)

// Handler обрабатывает тело сообщения. Ошибка приводит к nack с повторной постановкой.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage запускает потребителя очереди. Возвращённый канал закрывается,
// когда чтение остановлено и все начатые обработчики завершились.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler Handler) (<-chan struct{}, error) {
	const op = "rabbitmq.ConsumerMessage"
	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		Dispatch(ctx, log.With(sl.Op(op), slog.String("queue", queueName)), deliveries, handler)
	}()
	return done, nil
}

// Dispatch раздаёт доставки обработчикам, одновременно не более prefetch,
// и перед возвратом дожидается запущенных.
func Dispatch(ctx context.Context, log *slog.Logger, deliveries <-chan amqp.Delivery, handler Handler) {
	sem := make(chan struct{}, prefetch)
	defer func() {
		for range prefetch {
			sem <- struct{}{}
		}
	}()

	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				settle(ctx, log, d, handler)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func settle(ctx context.Context, log *slog.Logger, d amqp.Delivery, handler Handler) {
	if d.Acknowledger == nil {
		log.Warn("delivery without acknowledger")
		return
	}
	if err := handler(ctx, d.Body); err != nil {
		log.Error("failed to handle message", sl.Err(err))
		if nackErr := d.Acknowledger.Nack(d.DeliveryTag, false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Acknowledger.Ack(d.DeliveryTag, false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
