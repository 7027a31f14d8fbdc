// Package events publishes change events for tracker mutations to Kafka
// and consumes them back for auditing.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	DepartmentCreated EventType = "department_created"
	DepartmentUpdated EventType = "department_updated"
	DepartmentDeleted EventType = "department_deleted"
	RoleCreated       EventType = "role_created"
	RoleUpdated       EventType = "role_updated"
	RoleDeleted       EventType = "role_deleted"
	EmployeeCreated   EventType = "employee_created"
	EmployeeUpdated   EventType = "employee_updated"
	EmployeeDeleted   EventType = "employee_deleted"
)

const queueSize = 1000

// Event describes one committed change. Payload holds the entity (or the
// changed fields) as it was after the change.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       EventType   `json:"type"`
	Entity     string      `json:"entity"`
	EntityID   uint        `json:"entity_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, entity string, entityID uint, payload interface{}) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Entity:     entity,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer queues events and writes them to Kafka from a single goroutine.
// Produce never blocks: when the queue is full the event is dropped.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

// NewProducer creates the topic when it is missing and starts the
// delivery loop.
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.String("topic", topic), zap.Error(err))
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)
	go p.eventLoop()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.Uint("entity_id", event.EntityID),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

// drain flushes whatever is still queued when the producer closes.
func (p *Producer) drain() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Entity + ":" + strconv.FormatUint(uint64(event.EntityID), 10)),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.Uint("entity_id", event.EntityID),
		)
	}
}

// Close stops the delivery loop after flushing the queue and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards every event. It is used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Produce(Event) {}

func (NopProducer) Close() {}
