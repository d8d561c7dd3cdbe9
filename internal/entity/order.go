package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/clipdesk/clipdesk/internal/lifecycle"
)

// Platform is the publishing target the client is editing for.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

// Valid reports whether the platform is supported.
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube:
		return true
	}
	return false
}

// AddOns holds the optional extras selected at checkout.
type AddOns struct {
	Subtitles bool `json:"subtitles"`
	Rush      bool `json:"rush"`
}

// Order represents one editing order stored in the relational database.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID     uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID *uuid.UUID `bun:"user_id,type:uuid,nullzero"`
	Email  string     `bun:"email"`

	Tier         lifecycle.Tier         `bun:"tier"`
	Platform     Platform               `bun:"platform"`
	Vibe         string                 `bun:"vibe"`
	EditingLevel lifecycle.EditingLevel `bun:"editing_level"`
	AddOns       AddOns                 `bun:"add_ons,type:jsonb"`

	BriefWant        string `bun:"brief_want"`
	BriefAvoid       string `bun:"brief_avoid"`
	BriefMustInclude string `bun:"brief_must_include"`

	RawLimitSeconds   int `bun:"raw_limit_seconds"`
	RevisionsIncluded int `bun:"revisions_included"`
	RevisionsUsed     int `bun:"revisions_used"`

	Status        lifecycle.Status        `bun:"status"`
	PaymentStatus lifecycle.PaymentStatus `bun:"payment_status"`

	QuoteRequestedAt *time.Time `bun:"quote_requested_at,nullzero"`
	PaidAt           *time.Time `bun:"paid_at,nullzero"`
	DueAt            *time.Time `bun:"due_at,nullzero"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero"`
}

// State extracts the slice of the order the lifecycle engine operates on.
func (o *Order) State() lifecycle.OrderState {
	return lifecycle.OrderState{
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		RevisionsUsed:     o.RevisionsUsed,
		RevisionsIncluded: o.RevisionsIncluded,
		Rush:              o.AddOns.Rush,
		PaidAt:            o.PaidAt,
		DueAt:             o.DueAt,
	}
}

// SetState writes an engine-mutated state back onto the order.
func (o *Order) SetState(s lifecycle.OrderState) {
	o.Status = s.Status
	o.PaymentStatus = s.PaymentStatus
	o.RevisionsUsed = s.RevisionsUsed
	o.PaidAt = s.PaidAt
	o.DueAt = s.DueAt
}

// OwnedBy reports whether the given client email owns this order.
func (o *Order) OwnedBy(email string) bool {
	return email != "" && o.Email == email
}
