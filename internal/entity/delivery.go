package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Delivery is one produced artifact version for an order. Versions form a
// gapless 1-based sequence per order; rows are append-only.
type Delivery struct {
	bun.BaseModel `bun:"table:deliveries"`

	ID              int64     `bun:",pk,autoincrement"`
	OrderID         uuid.UUID `bun:"order_id,type:uuid"`
	Version         int       `bun:"version_number"`
	StorageKey      string    `bun:"storage_key"`
	Filename        string    `bun:"filename"`
	DurationSeconds *int      `bun:"duration_seconds,nullzero"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
