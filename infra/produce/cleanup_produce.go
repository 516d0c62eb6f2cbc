package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// OrphanedBlobQueue carries blobs that were uploaded successfully but whose
	// metadata insert failed. The cleanup consumer removes them from storage.
	OrphanedBlobQueue      = "blob.orphaned"
	OrphanedBlobRoutingKey = "blob.orphaned"
)

// OrphanedBlobMessage identifies an uploaded blob with no metadata row.
type OrphanedBlobMessage struct {
	Bucket     string `json:"bucket"`
	StorageKey string `json:"storage_key"`
	Reason     string `json:"reason"`
	Timestamp  int64  `json:"timestamp"`
}

type CleanupService struct {
	channel *amqp.Channel
}

func InitCleanupService(channel *amqp.Channel) *CleanupService {
	_, err := channel.QueueDeclare(
		OrphanedBlobQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to declare queue %s: %v", OrphanedBlobQueue, err))
	}

	return &CleanupService{channel: channel}
}

// PublishOrphanedBlob reports an unreferenced blob for later removal.
// Publishing is best-effort: the caller treats failures as log-only since the
// visible operation has already failed and been reported.
func (s *CleanupService) PublishOrphanedBlob(ctx context.Context, msg OrphanedBlobMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal orphaned blob message: %w", err)
	}

	err = s.channel.PublishWithContext(ctx,
		"", // default exchange
		OrphanedBlobRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish orphaned blob message: %w", err)
	}

	return nil
}
