package service

import (
	"context"
	"encoding/json"

	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records campaign updates and fans them out to the external bus when one is configured.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  events.Publisher
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var payload dto.CampaignSummariesLinkedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info("Consumer", "Campaign summaries linked", map[string]interface{}{
		"campaign_id":   payload.CampaignId.String(),
		"campaign_name": payload.CampaignName,
		"summary_count": payload.SummaryCount,
		"session_id":    payload.SessionId,
	})

	if cs.forwarder != nil {
		evt := events.CampaignSummariesLinked{
			CampaignID:   payload.CampaignId,
			CampaignName: payload.CampaignName,
			SummaryCount: payload.SummaryCount,
			SessionID:    payload.SessionId,
			OccurredAt:   payload.LinkedAt,
		}
		// Forwarding is best effort.
		if err := cs.forwarder.Publish(ctx, evt); err != nil {
			cs.logger.Warn("Consumer", "Failed to forward event", map[string]interface{}{
				"event": evt.EventType(),
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
