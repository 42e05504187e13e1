// Package kafka publishes dispatch messages through a sarama SyncProducer.
// Every message is JSON, keyed so that all messages about one order (or one
// realtime group) land on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"github.com/IBM/sarama"
)

const (
	headerEventType = "event-type"
	headerMessageID = "message-id"
)

// Topics names the destination of each message kind.
type Topics struct {
	Assignment   string
	Dispatched   string
	OrderCreated string
	OrderUpdated string
	VendorStatus string
	Realtime     string
}

// RealtimeEnvelope is the message a realtime gateway fans out to a client group.
type RealtimeEnvelope struct {
	Group   string `json:"group"`
	Method  string `json:"method"`
	Payload any    `json:"payload"`
}

// Producer implements every outbound port of the dispatch service.
type Producer struct {
	producer sarama.SyncProducer
	topics   Topics
}

// NewSyncProducer connects a producer that waits for all in-sync replicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, errs.NewTransportError("kafka", err)
	}
	return producer, nil
}

func NewProducer(producer sarama.SyncProducer, topics Topics) *Producer {
	return &Producer{producer: producer, topics: topics}
}

func (p *Producer) PublishAssignmentRequest(ctx context.Context, request ports.AssignmentRequest) error {
	return p.publishJSON(ctx, p.topics.Assignment, request.OrderID.String(), request)
}

func (p *Producer) PublishOrderCreated(ctx context.Context, event ports.OrderCreated) error {
	return p.publishJSON(ctx, p.topics.OrderCreated, event.OrderID.String(), event)
}

func (p *Producer) PublishVendorStatusChanged(ctx context.Context, event ports.VendorStatusChanged) error {
	return p.publishJSON(ctx, p.topics.VendorStatus, event.VendorID.String(), event)
}

func (p *Producer) PublishOrderUpdated(ctx context.Context, event ports.OrderUpdated) error {
	return p.publishJSON(ctx, p.topics.OrderUpdated, event.OrderID.String(), event)
}

// SendToGroup keys the envelope by group so a gateway sees one group's
// messages in order.
func (p *Producer) SendToGroup(ctx context.Context, group, method string, payload any) error {
	return p.publishJSON(ctx, p.topics.Realtime, group, RealtimeEnvelope{
		Group:   group,
		Method:  method,
		Payload: payload,
	})
}

// Send delivers an outbox message whose payload is already encoded.
func (p *Producer) Send(ctx context.Context, message ports.OutboxMessage) error {
	topic, err := p.topicFor(message.EventType)
	if err != nil {
		return err
	}
	return p.publish(ctx, &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(message.Key),
		Value: sarama.ByteEncoder(message.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(message.EventType)},
			{Key: []byte(headerMessageID), Value: []byte(message.ID.String())},
		},
	})
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

func (p *Producer) topicFor(eventType string) (string, error) {
	switch eventType {
	case ports.EventOrderDispatched:
		return p.topics.Dispatched, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("eventType", fmt.Errorf("no topic for %q", eventType))
	}
}

func (p *Producer) publishJSON(ctx context.Context, topic, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", topic, err)
	}
	return p.publish(ctx, &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
}

func (p *Producer) publish(ctx context.Context, message *sarama.ProducerMessage) error {
	if err := ctx.Err(); err != nil {
		return errs.NewTransportError(message.Topic, err)
	}
	_, _, err := p.producer.SendMessage(message)
	return errs.NewTransportError(message.Topic, err)
}
