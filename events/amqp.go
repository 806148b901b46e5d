package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meitrex/course-service/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a topic exchange, using the topic name as routing key.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	logger   log.Logger
}

func NewAMQPPublisher(url string, exchange string, logger log.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("unable to declare exchange %s: %w", exchange, err)
	}

	publisher := newAMQPPublisherWithChannel(ch, exchange, logger)
	publisher.conn = conn
	return publisher, nil
}

func newAMQPPublisherWithChannel(ch channel, exchange string, logger log.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger.With("component", "events", "exchange", exchange),
	}
}

func (p *AMQPPublisher) NotifyChapterChanges(ctx context.Context, chapterIDs []uuid.UUID, operation CrudOperation) {
	p.publish(ctx, ChapterChangedTopic, ChapterChangeEvent{Chapters: chapterIDs, Operation: operation})
}

func (p *AMQPPublisher) NotifyCourseChanges(ctx context.Context, courseID uuid.UUID, operation CrudOperation) {
	p.publish(ctx, CourseChangedTopic, CourseChangeEvent{CourseID: courseID, Operation: operation})
}

func (p *AMQPPublisher) publish(ctx context.Context, topic string, event interface{}) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("unable to encode event", "topic", topic, "error", err)
		return
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		p.logger.Error("unable to publish event", "topic", topic, "error", err)
		return
	}
	p.logger.Debug("event published", "topic", topic)
}

func (p *AMQPPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if connErr := p.conn.Close(); err == nil {
			err = connErr
		}
	}
	return err
}
