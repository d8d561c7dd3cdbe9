package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/clipdesk/clipdesk/internal/entity"
	"github.com/clipdesk/clipdesk/internal/lifecycle"
)

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID                uuid.UUID               `json:"id"`
	Email             string                  `json:"email"`
	Tier              lifecycle.Tier          `json:"tier"`
	Platform          entity.Platform         `json:"platform"`
	Vibe              string                  `json:"vibe"`
	EditingLevel      lifecycle.EditingLevel  `json:"editing_level"`
	AddOns            entity.AddOns           `json:"add_ons"`
	Status            lifecycle.Status        `json:"status"`
	PaymentStatus     lifecycle.PaymentStatus `json:"payment_status"`
	RawLimitSeconds   int                     `json:"raw_limit_seconds"`
	RevisionsIncluded int                     `json:"revisions_included"`
	RevisionsUsed     int                     `json:"revisions_used"`
	QuoteRequestedAt  *time.Time              `json:"quote_requested_at,omitempty"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	DueAt             *time.Time              `json:"due_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// NewOrderResponse maps an order entity onto its transport shape.
func NewOrderResponse(order *entity.Order) OrderResponse {
	return OrderResponse{
		ID:                order.ID,
		Email:             order.Email,
		Tier:              order.Tier,
		Platform:          order.Platform,
		Vibe:              order.Vibe,
		EditingLevel:      order.EditingLevel,
		AddOns:            order.AddOns,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		RawLimitSeconds:   order.RawLimitSeconds,
		RevisionsIncluded: order.RevisionsIncluded,
		RevisionsUsed:     order.RevisionsUsed,
		QuoteRequestedAt:  order.QuoteRequestedAt,
		PaidAt:            order.PaidAt,
		DueAt:             order.DueAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// StatusHistoryResponse is one transition record.
type StatusHistoryResponse struct {
	FromStatus *lifecycle.Status `json:"from_status"`
	ToStatus   lifecycle.Status  `json:"to_status"`
	Actor      lifecycle.Actor   `json:"actor"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DeliveryResponse is one delivered artifact version.
type DeliveryResponse struct {
	Version         int       `json:"version"`
	StorageKey      string    `json:"storage_key"`
	Filename        string    `json:"filename"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MessageResponse is one thread message.
type MessageResponse struct {
	Sender    lifecycle.Actor `json:"sender"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
}
