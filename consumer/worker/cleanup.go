package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edushelf/edushelf-catalog/infra"
	"github.com/edushelf/edushelf-catalog/infra/produce"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CleanupConsumer removes blobs that were uploaded but never got a metadata
// row. It is an operational safeguard layered outside the catalog: the
// failed create has already been reported to its caller by the time a
// message lands here.
type CleanupConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
}

func NewCleanupConsumer(channel *amqp.Channel, infra *infra.Infra) *CleanupConsumer {
	return &CleanupConsumer{
		channel: channel,
		infra:   infra,
	}
}

func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.OrphanedBlobQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register orphaned blob consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening on queue: %s", produce.OrphanedBlobQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleOrphanedBlob(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *CleanupConsumer) handleOrphanedBlob(ctx context.Context, msg amqp.Delivery) {
	var event produce.OrphanedBlobMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to decode message, dropping")
		_ = msg.Nack(false, false)
		return
	}

	if event.Bucket != c.infra.Minio.Bucket {
		c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Message for unknown bucket %s, dropping", event.Bucket)
		_ = msg.Nack(false, false)
		return
	}

	if err := c.infra.Minio.RemoveObject(ctx, event.StorageKey); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to remove orphaned blob %s, requeueing", event.StorageKey)
		_ = msg.Nack(false, true)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Removed orphaned blob %s (%s)", event.StorageKey, event.Reason)
	_ = msg.Ack(false)
}
