package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipdesk/clipdesk/internal/lifecycle"
)

// Event types published to the order events topic.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is emitted after an order is created or transitions status.
type OrderEvent struct {
	Type       string            `json:"type"`
	ID         uuid.UUID         `json:"id"`
	Status     lifecycle.Status  `json:"status"`
	FromStatus *lifecycle.Status `json:"from_status,omitempty"`
	Actor      lifecycle.Actor   `json:"actor"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func (s *Service) publishEvent(ctx context.Context, event OrderEvent) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.Error(err))
		return
	}
	key := []byte(fmt.Sprintf("order-%s", event.ID))
	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		s.logger.Error("publish order event", zap.String("type", event.Type), zap.Error(err))
	}
}
