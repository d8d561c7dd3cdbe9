package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AssetKind classifies an uploaded source file.
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetImage AssetKind = "image"
	AssetVoice AssetKind = "voice"
	AssetLogo  AssetKind = "logo"
)

// Valid reports whether the asset kind is supported.
func (k AssetKind) Valid() bool {
	switch k {
	case AssetVideo, AssetImage, AssetVoice, AssetLogo:
		return true
	}
	return false
}

// Asset is one uploaded source file registered against an order.
type Asset struct {
	bun.BaseModel `bun:"table:order_assets"`

	ID              int64     `bun:",pk,autoincrement"`
	OrderID         uuid.UUID `bun:"order_id,type:uuid"`
	Kind            AssetKind `bun:"kind"`
	StorageKey      string    `bun:"storage_key"`
	Filename        string    `bun:"filename"`
	MimeType        string    `bun:"mime_type"`
	SizeBytes       int64     `bun:"size_bytes"`
	DurationSeconds *int      `bun:"duration_seconds,nullzero"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
