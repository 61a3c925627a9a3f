package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
)

// maxInFlight число сообщений, обрабатываемых одновременно.
const maxInFlight = 10

// Consumer часть *amqp.Channel, нужная для чтения очереди.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Handler обрабатывает тело сообщения.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage запускает чтение очереди queueName. Успешно обработанное
// сообщение подтверждается. При ошибке сообщение возвращается в очередь один
// раз, повторная ошибка отбрасывает его.
func ConsumerMessage(ctx context.Context, ch Consumer, queueName string, handler Handler, logger *slog.Logger) error {
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
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(ctx, delivery.Body); err != nil {
						requeue := !delivery.Redelivered
						logger.Error("message handling failed",
							slog.String("queue", queueName),
							slog.Bool("requeue", requeue),
							sl.Err(err))
						if nackErr := delivery.Nack(false, requeue); nackErr != nil {
							logger.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						logger.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
