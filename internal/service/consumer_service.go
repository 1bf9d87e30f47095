package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"clinical-synth-be/internal/dto"
	"clinical-synth-be/internal/pkg/logger"
	"clinical-synth-be/internal/websocket"
	"clinical-synth-be/pkg/events"
	pktNats "clinical-synth-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains record-change messages off the in-process bus:
// writes the audit entry, pushes the update to watching websocket clients,
// and mirrors the event to NATS when a broker is wired.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
	auditLogger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	auditLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		hub:            hub,
		eventPublisher: eventPublisher,
		auditLogger:    auditLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RecordChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal record change message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.auditLogger.Info("AUDIT", "Record change", map[string]interface{}{
		"patient_id":      payload.PatientId,
		"chat_session_id": payload.ChatSessionId,
		"source":          payload.Source,
		"action":          payload.Action,
		"target":          payload.Target,
		"status":          payload.Status,
		"saved":           payload.Saved,
	})

	if cs.hub != nil {
		cs.hub.SendToPatient(payload.PatientId, "record_changed", payload)
	}

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: eventTypeFor(payload),
			Data: map[string]interface{}{
				"patient_id": payload.PatientId,
				"source":     payload.Source,
				"action":     payload.Action,
				"target":     payload.Target,
				"status":     payload.Status,
				"saved":      payload.Saved,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to mirror record change to NATS: %v", err)
		}
	}

	msg.Ack()
}

// eventTypeFor maps a record-change message to its broker event code:
// failed persists and synthesis results get their own codes so downstream
// consumers can subscribe selectively.
func eventTypeFor(payload dto.RecordChangedMessage) string {
	switch {
	case !payload.Saved:
		return events.EventRecordSaveFailed
	case payload.Source == "synthesis":
		return events.EventNoteSynthesized
	default:
		return events.EventRecordChanged
	}
}
