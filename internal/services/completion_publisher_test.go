package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/testhelpers"
)

func TestPublishCompletionDeliversEvent(t *testing.T) {
	_, rdb := testhelpers.SetupTestRedis(t)
	publisher := NewCompletionPublisher(rdb, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := rdb.Subscribe(ctx, CompletionChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	completedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err = publisher.PublishCompletion(ctx, models.CompletionEvent{
		CandidateID:     "c-1",
		Name:            "Ada Lovelace",
		TotalScore:      37,
		AverageScore:    6.2,
		PerformanceTier: models.TierGood,
		CompletedAt:     completedAt,
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, `"c-1"`)
		assert.Contains(t, msg.Payload, "Ada Lovelace")
	case <-time.After(2 * time.Second):
		t.Fatal("completion event not received")
	}
}

func TestSubscribeCompletionsDecodesAndSkipsGarbage(t *testing.T) {
	_, rdb := testhelpers.SetupTestRedis(t)
	publisher := NewCompletionPublisher(rdb, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan models.CompletionEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- SubscribeCompletions(ctx, rdb, nil, func(e models.CompletionEvent) {
			received <- e
		})
	}()

	// The subscriber confirms before reading; retry until it is attached.
	require.Eventually(t, func() bool {
		n, err := rdb.PubSubNumSub(ctx, CompletionChannel).Result()
		return err == nil && n[CompletionChannel] > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, rdb.Publish(ctx, CompletionChannel, "not json").Err())
	require.NoError(t, publisher.PublishCompletion(ctx, models.CompletionEvent{CandidateID: "c-2"}))

	select {
	case e := <-received:
		assert.Equal(t, "c-2", e.CandidateID)
	case <-time.After(2 * time.Second):
		t.Fatal("decoded event not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
