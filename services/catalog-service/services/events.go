package services

import (
	"context"
	"encoding/json"
	"fmt"

	awspkg "github.com/yashrajoria/product-catalog/pkg/aws"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

// EventPublisher delivers product events to downstream consumers.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event models.ProductEvent) error
}

// SNSEventPublisher publishes product events as JSON to one SNS topic.
type SNSEventPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
}

// NewSNSEventPublisher returns nil when there is nothing to publish to, which
// ProductService treats as "events disabled".
func NewSNSEventPublisher(client awspkg.SNSPublisher, topicArn string) *SNSEventPublisher {
	if client == nil || topicArn == "" {
		return nil
	}
	return &SNSEventPublisher{client: client, topicArn: topicArn}
}

func (p *SNSEventPublisher) PublishProductEvent(ctx context.Context, event models.ProductEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType, err)
	}
	return p.client.Publish(ctx, p.topicArn, body)
}
