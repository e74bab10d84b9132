package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/campusboard/campus-news/internal/models"
)

// ChannelPublisher адаптер канала AMQP под интерфейсы сервисов.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

// Publish публикует сообщение в обменник с данным ключом маршрутизации.
func (p *ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	return PublishMessage(p.Ch, exchange, routingKey, message)
}

// PublishPush публикует push-событие в очередь push-уведомлений.
func (p *ChannelPublisher) PublishPush(event models.PushEvent) error {
	return PublishMessage(p.Ch, Exchange, RoutingKeyPush, event)
}

// PublishMessage сериализует сообщение в JSON и публикует его в обменник.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
