package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"peerprep/interview/internal/models"
)

// CompletionChannel carries one JSON CompletionEvent per finished interview.
const CompletionChannel = "interview_completed"

type CompletionPublisher struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewCompletionPublisher(rdb *redis.Client, logger *zap.Logger) *CompletionPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionPublisher{rdb: rdb, channel: CompletionChannel, logger: logger}
}

func (p *CompletionPublisher) PublishCompletion(ctx context.Context, event models.CompletionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}
	receivers, err := p.rdb.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish completion event: %w", err)
	}
	p.logger.Info("published interview completion",
		zap.String("candidate_id", event.CandidateID),
		zap.Int64("receivers", receivers))
	return nil
}

// SubscribeCompletions delivers decoded completion events to handle until
// ctx is done. Malformed payloads are logged and skipped.
func SubscribeCompletions(ctx context.Context, rdb *redis.Client, logger *zap.Logger, handle func(models.CompletionEvent)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	sub := rdb.Subscribe(ctx, CompletionChannel)
	defer sub.Close()

	// Wait for the subscription to be confirmed so publishes are not missed.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", CompletionChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event models.CompletionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("skipping malformed completion event", zap.Error(err))
				continue
			}
			handle(event)
		}
	}
}
