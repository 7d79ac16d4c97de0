package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	streamClaims    = "veristream.claims"   // Claim creation events
	channelOutcomes = "veristream.outcomes" // Per-pass outcome fan-out
	channelChanged  = "veristream.changed"  // Table-keyed refresh signal
)

// NewRedis connects a redis client from a URL
func NewRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

// RedisBus implements Publisher, Source and Broadcaster on one redis client.
// Creation events ride an append-only stream; outcome and changed signals use
// pub/sub, matching subscribers that only care about current traffic.
type RedisBus struct {
	rdb *redis.Client
}

// NewRedisBus creates a redis-backed event bus
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

// ClaimCreated appends a creation event to the claim stream
func (b *RedisBus) ClaimCreated(ctx context.Context, claimID uint64) error {
	return b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamClaims,
		Values: map[string]interface{}{"claimId": claimID},
	}).Err()
}

// Events tails the claim stream from now on, delivering creation events
// until ctx is done
func (b *RedisBus) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		lastID := "$"
		for {
			streams, err := b.rdb.XRead(ctx, &redis.XReadArgs{
				Streams: []string{streamClaims, lastID},
				Count:   16,
				Block:   5 * time.Second,
			}).Result()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if errors.Is(err, redis.Nil) {
					continue // Block timeout, nothing new
				}
				// Transient connection error; avoid a hot loop
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					lastID = msg.ID
					id, err := parseClaimID(msg.Values)
					if err != nil {
						continue
					}
					select {
					case out <- Event{ClaimID: id}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}

// Outcome publishes one pass result to subscribers
func (b *RedisBus) Outcome(ctx context.Context, outcome OutcomeEvent) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	return b.rdb.Publish(ctx, channelOutcomes, payload).Err()
}

// Changed publishes the table-keyed refresh signal
func (b *RedisBus) Changed(ctx context.Context, table string) error {
	return b.rdb.Publish(ctx, channelChanged, table).Err()
}

// parseClaimID extracts the claim id from stream entry values. Redis hands
// stream values back as strings.
func parseClaimID(values map[string]interface{}) (uint64, error) {
	raw, ok := values["claimId"]
	if !ok {
		return 0, errors.New("stream entry missing claimId")
	}
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected claimId type %T", raw)
	}
	return strconv.ParseUint(s, 10, 64)
}
