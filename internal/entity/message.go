package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/clipdesk/clipdesk/internal/lifecycle"
)

// Message is one free-text note on an order's thread, tagged by sender role.
type Message struct {
	bun.BaseModel `bun:"table:messages"`

	ID        int64           `bun:",pk,autoincrement"`
	OrderID   uuid.UUID       `bun:"order_id,type:uuid"`
	Sender    lifecycle.Actor `bun:"sender"`
	Body      string          `bun:"body"`
	CreatedAt time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
