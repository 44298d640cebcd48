// Package cache provides an optional Redis read-through cache for the public
// approved listing. Approve and delete are the only mutations that change
// visibility and both invalidate the affected recipient's key, so a cached
// listing never outlives a moderation action; the TTL only bounds staleness
// against out-of-band database edits.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"noteboard/internal/notes/models"
	platformredis "noteboard/internal/platform/redis"
)

const keyPrefix = "notes:approved:"

// ApprovedListing caches approved-notes listings per recipient.
type ApprovedListing struct {
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewApprovedListing(client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *ApprovedListing {
	return &ApprovedListing{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached listing for a recipient. Any Redis failure is
// treated as a miss: the service falls through to the store, never serving
// an error or stale data in place of a fresh read.
func (c *ApprovedListing) Get(ctx context.Context, recipientHandle string) ([]*models.Note, bool) {
	payload, err := c.client.Get(ctx, keyPrefix+recipientHandle).Bytes()
	if err != nil {
		return nil, false
	}
	var notes []*models.Note
	if err := json.Unmarshal(payload, &notes); err != nil {
		c.logger.WarnContext(ctx, "corrupt cache entry, treating as miss",
			"receiver_id", recipientHandle,
			"error", err,
		)
		return nil, false
	}
	return notes, true
}

// Set stores a listing. Best-effort; a failed write only costs the next
// reader a store round-trip.
func (c *ApprovedListing) Set(ctx context.Context, recipientHandle string, notes []*models.Note) {
	payload, err := json.Marshal(notes)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+recipientHandle, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to write listing cache",
			"receiver_id", recipientHandle,
			"error", err,
		)
	}
}

// Invalidate drops the recipient's cached listing after a moderation action.
func (c *ApprovedListing) Invalidate(ctx context.Context, recipientHandle string) {
	if err := c.client.Del(ctx, keyPrefix+recipientHandle).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate listing cache",
			"receiver_id", recipientHandle,
			"error", err,
		)
	}
}
