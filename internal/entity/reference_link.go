package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxReferenceLinks caps the reference list per order.
const MaxReferenceLinks = 5

// ReferenceLink is one inspiration URL attached to an order. The list is
// replaced as a whole; Position preserves the client's ordering.
type ReferenceLink struct {
	bun.BaseModel `bun:"table:reference_links"`

	ID        int64     `bun:",pk,autoincrement"`
	OrderID   uuid.UUID `bun:"order_id,type:uuid"`
	Position  int       `bun:"position"`
	URL       string    `bun:"url"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
