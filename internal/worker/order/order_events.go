package order

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/clipdesk/clipdesk/internal/cache"
	"github.com/clipdesk/clipdesk/internal/config"
	"github.com/clipdesk/clipdesk/internal/messaging"
	ordersvc "github.com/clipdesk/clipdesk/internal/service/order"
	"github.com/clipdesk/clipdesk/internal/worker"
)

var workerTracer = otel.Tracer("github.com/clipdesk/clipdesk/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderEventsHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderEventsHandler consumes order lifecycle events. Status changes
// evict the order from cache so instances that did not perform the write
// stop serving stale snapshots.
func NewOrderEventsHandler(logger *zap.Logger, cfg config.Config, store cache.Store) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		switch event.Type {
		case ordersvc.EventOrderCreated:
			logger.Info("order created",
				zap.String("id", event.ID.String()),
				zap.String("status", event.Status.String()),
			)
		case ordersvc.EventOrderStatusChanged:
			if err := store.Delete(ctx, fmt.Sprintf("orders:%s", event.ID)); err != nil {
				logger.Warn("cache eviction failed", zap.String("id", event.ID.String()), zap.Error(err))
			}
			logger.Info("order status changed",
				zap.String("id", event.ID.String()),
				zap.String("status", event.Status.String()),
				zap.String("actor", event.Actor.String()),
			)
		default:
			logger.Warn("unknown order event type", zap.String("type", event.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
