package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/clipdesk/clipdesk/internal/lifecycle"
)

// StatusHistory is one immutable record of a status transition. Rows are
// append-only; the monotonic primary key preserves logical order when two
// transitions share a timestamp.
type StatusHistory struct {
	bun.BaseModel `bun:"table:status_history"`

	ID         int64             `bun:",pk,autoincrement"`
	OrderID    uuid.UUID         `bun:"order_id,type:uuid"`
	FromStatus *lifecycle.Status `bun:"from_status,nullzero"`
	ToStatus   lifecycle.Status  `bun:"to_status"`
	Actor      lifecycle.Actor   `bun:"actor"`
	CreatedAt  time.Time         `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
