package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	AssetExchange = "asset.exchange"

	// AssetUploadedQueue carries audit events for successful uploads.
	AssetUploadedQueue      = "asset.uploaded"
	AssetUploadedRoutingKey = "asset.uploaded"

	// AssetDeletedQueue carries audit events for record deletions.
	AssetDeletedQueue      = "asset.deleted"
	AssetDeletedRoutingKey = "asset.deleted"

	// AssetCleanupQueue receives object keys whose remote delete failed so a
	// consumer can retry them later. Publishing here is itself best-effort.
	AssetCleanupQueue      = "asset.cleanup"
	AssetCleanupRoutingKey = "asset.cleanup"
)

// AssetUploadedMessage is published after an upload is fully persisted.
type AssetUploadedMessage struct {
	AssetID     string `json:"asset_id"`
	OwnerID     string `json:"owner_id"`
	PublicID    string `json:"public_id"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Timestamp   int64  `json:"timestamp"`
}

// AssetDeletedMessage is published after a record is removed from the database.
type AssetDeletedMessage struct {
	AssetID       string `json:"asset_id"`
	OwnerID       string `json:"owner_id"`
	PublicID      string `json:"public_id"`
	RemoteDeleted bool   `json:"remote_deleted"`
	Timestamp     int64  `json:"timestamp"`
}

// AssetCleanupMessage identifies a remote object that should be deleted but
// wasn't (compensation failure or delete-path storage failure).
type AssetCleanupMessage struct {
	PublicID  string `json:"public_id"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// AssetEventService publishes asset lifecycle messages.
type AssetEventService struct {
	channel *amqp.Channel
}

func InitAssetEventService(channel *amqp.Channel) *AssetEventService {
	service := &AssetEventService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		AssetExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Asset exchange: " + err.Error())
	}

	queues := []struct {
		name       string
		routingKey string
	}{
		{AssetUploadedQueue, AssetUploadedRoutingKey},
		{AssetDeletedQueue, AssetDeletedRoutingKey},
		{AssetCleanupQueue, AssetCleanupRoutingKey},
	}

	for _, q := range queues {
		_, err = channel.QueueDeclare(
			q.name,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			panic("Failed to declare queue " + q.name + ": " + err.Error())
		}

		err = channel.QueueBind(q.name, q.routingKey, AssetExchange, false, nil)
		if err != nil {
			panic("Failed to bind queue " + q.name + ": " + err.Error())
		}
	}

	return service
}

func (s *AssetEventService) PublishUploaded(ctx context.Context, msg AssetUploadedMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, AssetUploadedRoutingKey, msg)
}

func (s *AssetEventService) PublishDeleted(ctx context.Context, msg AssetDeletedMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, AssetDeletedRoutingKey, msg)
}

func (s *AssetEventService) PublishCleanup(ctx context.Context, msg AssetCleanupMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, AssetCleanupRoutingKey, msg)
}

func (s *AssetEventService) publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.channel.PublishWithContext(ctx,
		AssetExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
