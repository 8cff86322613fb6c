// FILE: internal/service/usage_consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-contentgen-be/internal/dto"
	"ai-contentgen-be/internal/model"
	"ai-contentgen-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IUsageConsumerService interface {
	Consume(ctx context.Context) error
}

type usageConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	usageRepo contract.UsageLogRepository // nil when persistence is disabled
}

func NewUsageConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	usageRepo contract.UsageLogRepository,
) IUsageConsumerService {
	return &usageConsumerService{
		pubSub:    pubSub,
		topicName: topicName,
		usageRepo: usageRepo,
	}
}

func (cs *usageConsumerService) Consume(ctx context.Context) error {
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

func (cs *usageConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishUsageMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal usage message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if cs.usageRepo == nil {
		// No database configured; usage is log-only.
		log.Printf("[INFO] Usage recorded session=%s intent=%s tokens_in=%d tokens_out=%d quality=%.2f",
			payload.SessionId, payload.Intent, payload.TokensIn, payload.TokensOut, payload.QualityScore)
		msg.Ack()
		return
	}

	usage := &model.UsageLog{
		SessionId:      payload.SessionId,
		Intent:         payload.Intent,
		Model:          payload.Model,
		TokensIn:       payload.TokensIn,
		TokensOut:      payload.TokensOut,
		LatencyMs:      payload.LatencyMs,
		QualityScore:   payload.QualityScore,
		RepairAttempts: payload.RepairAttempts,
		Success:        payload.Success,
	}
	if payload.UserId != "" {
		userId := payload.UserId
		usage.UserId = &userId
	}

	if err := cs.usageRepo.Create(ctx, usage); err != nil {
		log.Printf("[ERROR] Failed to persist usage for session %s: %v", payload.SessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
