package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pictu/api/internal/repository"
	"pictu/api/internal/storage"
)

// Consumer drains the cleanup stream and finishes image deletes that
// failed between the object store and the database.
type Consumer struct {
	client        *redis.Client
	images        *repository.ImageRepository
	store         *storage.ObjectStore
	consumerName  string
	claimInterval time.Duration
	log           zerolog.Logger
}

func NewConsumer(client *redis.Client, images *repository.ImageRepository, store *storage.ObjectStore, consumerName string, log zerolog.Logger) *Consumer {
	return &Consumer{
		client:        client,
		images:        images,
		store:         store,
		consumerName:  consumerName,
		claimInterval: time.Minute,
		log:           log,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.claimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.read(ctx); err != nil && ctx.Err() == nil {
				c.log.Error().Err(err).Msg("stream read error")
				time.Sleep(2 * time.Second)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = c.claimStalled(ctx)
		default:
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, cleanupStream, cleanupGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

func (c *Consumer) read(ctx context.Context) error {
	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    cleanupGroup,
		Consumer: c.consumerName,
		Streams:  []string{cleanupStream, ">"},
		Count:    10,
		Block:    5 * time.Second,
	}).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	for _, stream := range result {
		for _, msg := range stream.Messages {
			if err := c.handle(ctx, msg); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("handle task failed")
				continue
			}
			if err := c.client.XAck(ctx, cleanupStream, cleanupGroup, msg.ID).Err(); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("ack failed")
			}
		}
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) error {
	taskType, _ := msg.Values["type"].(string)

	switch taskType {
	case taskCleanup:
		imageID, _ := msg.Values["imageId"].(string)
		objectKey, _ := msg.Values["objectKey"].(string)
		return c.cleanupImage(ctx, imageID, objectKey)
	case taskSweep:
		return c.sweep(ctx)
	default:
		return fmt.Errorf("unknown task type %q", taskType)
	}
}

// cleanupImage is idempotent: removing an already-removed object and
// deleting an already-deleted row are both no-ops.
func (c *Consumer) cleanupImage(ctx context.Context, imageID, objectKey string) error {
	if objectKey != "" {
		if err := c.store.Remove(ctx, objectKey); err != nil {
			return fmt.Errorf("remove object %s: %w", objectKey, err)
		}
	}
	if imageID != "" {
		if err := c.images.DeleteRow(ctx, imageID); err != nil {
			return fmt.Errorf("delete row %s: %w", imageID, err)
		}
	}

	c.log.Info().Str("image_id", imageID).Str("object_key", objectKey).Msg("cleanup completed")
	return nil
}

// sweep picks up tombstoned rows whose delete never finished, typically
// after a crash between the tombstone and the object removal.
func (c *Consumer) sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-time.Hour)
	stuck, err := c.images.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stuck rows: %w", err)
	}

	for _, image := range stuck {
		if err := c.cleanupImage(ctx, image.ID, image.ObjectKey); err != nil {
			c.log.Error().Err(err).Str("image_id", image.ID).Msg("sweep cleanup failed")
		}
	}

	if len(stuck) > 0 {
		c.log.Info().Int("count", len(stuck)).Msg("sweep finished")
	}
	return nil
}

func (c *Consumer) claimStalled(ctx context.Context) error {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: cleanupStream,
		Group:  cleanupGroup,
		Start:  "-",
		End:    "+",
		Count:  10,
	}).Result()
	if err != nil {
		return err
	}

	for _, entry := range pending {
		if entry.Idle < c.claimInterval {
			continue
		}
		msgs, err := c.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   cleanupStream,
			Group:    cleanupGroup,
			Consumer: c.consumerName,
			MinIdle:  c.claimInterval,
			Messages: []string{entry.ID},
		}).Result()
		if err != nil {
			c.log.Error().Err(err).Msg("claim error")
			continue
		}
		for _, msg := range msgs {
			if err := c.handle(ctx, msg); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("handle claimed task failed")
				continue
			}
			if err := c.client.XAck(ctx, cleanupStream, cleanupGroup, msg.ID).Err(); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("ack claimed failed")
			}
		}
	}
	return nil
}
