package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"clinical-scribe-be/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventDelivery pushes a serialized event to every live connection of one
// session. Implemented by the websocket hub.
type EventDelivery interface {
	Send(sessionID string, payload []byte)
}

// consumerService drains the in-process event bus and fans pipeline events
// out to the websocket layer so the browser can refresh its note history
// without polling.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	delivery  EventDelivery
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	delivery EventDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		delivery:  delivery,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	sessionID, _ := envelope.Data["session_id"].(string)
	if sessionID == "" {
		cs.logger.Warn("Consumer", "Event without session id dropped", map[string]interface{}{"type": envelope.Type})
		msg.Ack()
		return
	}

	cs.delivery.Send(sessionID, msg.Payload)
	msg.Ack()
}
