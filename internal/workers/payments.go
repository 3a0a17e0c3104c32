package workers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"papers-store-backend/internal/common/logger"
	"papers-store-backend/internal/features/account/models"
	"papers-store-backend/internal/platform/redis"
)

const EventStarsPurchased = "stars_purchased"

var errMalformedEvent = errors.New("malformed payment event")

// PaymentApplier credits a settled charge at most once.
type PaymentApplier interface {
	ApplyPayment(ctx context.Context, chargeID string, telegramID, amount int64) (*models.Account, bool, error)
}

// PaymentStreamWorker consumes payment events published by the bot after a
// successful star top-up and credits the buyer. Deduplication by charge id
// happens in the same database statement as the credit, so an event is only
// acked once the credit is durable or known to be a repeat.
type PaymentStreamWorker struct {
	rdb      redis.StreamClient
	payments PaymentApplier
	stream   string
	group    string
	consumer string
	count    int64
	block    time.Duration
}

func NewPaymentStreamWorker(rdb redis.StreamClient, payments PaymentApplier, stream, group, consumer string) *PaymentStreamWorker {
	return &PaymentStreamWorker{
		rdb:      rdb,
		payments: payments,
		stream:   stream,
		group:    group,
		consumer: consumer,
		count:    10,
		block:    5 * time.Second,
	}
}

// Start blocks until ctx is cancelled. Entries left pending by a previous run
// of this consumer are retried first.
func (w *PaymentStreamWorker) Start(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		logger.Error().Err(err).Str("stream", w.stream).Msg("Failed to create consumer group")
	}

	logger.Info().Str("stream", w.stream).Str("consumer", w.consumer).Msg("Starting payment stream worker")

	w.replayPending(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping payment stream worker")
			return
		default:
			w.read(ctx, ">")
		}
	}
}

// replayPending walks this consumer's whole pending list in pages. Entries
// that fail again stay pending and the walk moves past them.
func (w *PaymentStreamWorker) replayPending(ctx context.Context) {
	lastID := "0"
	for ctx.Err() == nil {
		n, next := w.read(ctx, lastID)
		if n == 0 {
			return
		}
		lastID = next
	}
}

// read processes one batch and returns its size and the last entry id.
func (w *PaymentStreamWorker) read(ctx context.Context, id string) (int, string) {
	entries, err := w.rdb.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    w.group,
		Consumer: w.consumer,
		Streams:  []string{w.stream, id},
		Count:    w.count,
		Block:    w.block,
	}).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) && ctx.Err() == nil {
			logger.Warn().Err(err).Str("stream", w.stream).Msg("Failed to read stream")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
		return 0, id
	}

	n, lastID := 0, id
	for _, stream := range entries {
		for _, msg := range stream.Messages {
			n++
			lastID = msg.ID
			if err := w.processMessage(ctx, msg.Values); err != nil {
				if !errors.Is(err, errMalformedEvent) {
					// Left pending; retried on the next start.
					logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to process payment event")
					continue
				}
				logger.Warn().Err(err).Str("message_id", msg.ID).Msg("Dropping payment event")
			}
			if err := w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err(); err != nil {
				logger.Warn().Err(err).Str("message_id", msg.ID).Msg("Failed to ack payment event")
			}
		}
	}
	return n, lastID
}

func (w *PaymentStreamWorker) processMessage(ctx context.Context, values map[string]interface{}) error {
	eventType, _ := values["type"].(string)
	if eventType != EventStarsPurchased {
		return nil
	}

	userID, err := intField(values, "user_id")
	if err != nil {
		return err
	}
	amount, err := intField(values, "amount")
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d", errMalformedEvent, amount)
	}
	chargeID, _ := values["charge_id"].(string)
	if chargeID == "" {
		return fmt.Errorf("%w: charge_id is missing", errMalformedEvent)
	}

	if _, _, err := w.payments.ApplyPayment(ctx, chargeID, userID, amount); err != nil {
		return fmt.Errorf("failed to apply charge %s: %w", chargeID, err)
	}
	return nil
}

func intField(values map[string]interface{}, name string) (int64, error) {
	raw, ok := values[name].(string)
	if !ok {
		return 0, fmt.Errorf("%w: %s is missing", errMalformedEvent, name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errMalformedEvent, name, err)
	}
	return v, nil
}
