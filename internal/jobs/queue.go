package jobs

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	cleanupStream = "images:cleanup"
	cleanupGroup  = "pictu-cleanup"

	taskCleanup = "cleanup"
	taskSweep   = "sweep"
)

// Queue publishes cleanup work to the redis stream the consumer drains.
type Queue struct {
	client *redis.Client
}

func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client}
}

func (q *Queue) EnqueueImageCleanup(ctx context.Context, imageID, objectKey string) error {
	return q.enqueue(ctx, map[string]any{
		"type":      taskCleanup,
		"imageId":   imageID,
		"objectKey": objectKey,
	})
}

func (q *Queue) EnqueueSweep(ctx context.Context) error {
	return q.enqueue(ctx, map[string]any{
		"type": taskSweep,
	})
}

func (q *Queue) enqueue(ctx context.Context, payload map[string]any) error {
	_, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: cleanupStream,
		Values: payload,
	}).Result()
	return err
}
