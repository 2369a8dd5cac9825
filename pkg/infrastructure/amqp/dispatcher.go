package amqp

import (
	"encoding/json"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yutosuda/EC-sub001/pkg/event"
)

// Dispatcher publishes domain events to a topic exchange, routed by event
// type.
type Dispatcher struct {
	channel  *amqp.Channel
	exchange string
}

func NewDispatcher(conn *amqp.Connection, exchange string) (*Dispatcher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open amqp channel")
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, errors.Wrapf(err, "declare exchange %s", exchange)
	}
	return &Dispatcher{channel: channel, exchange: exchange}, nil
}

func (d *Dispatcher) Dispatch(e event.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrapf(err, "encode event %s", e.Type())
	}

	err = d.channel.Publish(d.exchange, e.Type(), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	return errors.Wrapf(err, "publish event %s", e.Type())
}

func (d *Dispatcher) Close() error {
	return d.channel.Close()
}
