package lifecycle

import "time"

// Tier classifies the order size class; it fixes the raw-footage limit and
// the included revision count at creation time.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Valid reports whether the tier is a known class.
func (t Tier) Valid() bool {
	switch t {
	case TierA, TierB, TierC:
		return true
	}
	return false
}

// EditingLevel selects how much production work an order gets.
type EditingLevel string

const (
	EditingBasic    EditingLevel = "basic"
	EditingEnhanced EditingLevel = "enhanced"
	EditingPro      EditingLevel = "pro"
)

// Valid reports whether the editing level is known.
func (l EditingLevel) Valid() bool {
	switch l {
	case EditingBasic, EditingEnhanced, EditingPro:
		return true
	}
	return false
}

// RequiresQuote reports whether the level routes through a quote step
// instead of direct payment.
func (l EditingLevel) RequiresQuote() bool {
	return l == EditingPro
}

// PaymentStatus tracks the payment sub-state independent of the lifecycle.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// TierRules holds the creation-time attributes derived from a tier.
type TierRules struct {
	RawLimitSeconds   int
	RevisionsIncluded int
}

// RulesFor maps a tier onto its raw-footage limit and included revisions.
func RulesFor(tier Tier) TierRules {
	switch tier {
	case TierA:
		return TierRules{RawLimitSeconds: 2 * 60, RevisionsIncluded: 1}
	case TierB:
		return TierRules{RawLimitSeconds: 5 * 60, RevisionsIncluded: 1}
	default:
		return TierRules{RawLimitSeconds: 10 * 60, RevisionsIncluded: 2}
	}
}

const (
	rushDueWindow     = 24 * time.Hour
	standardDueWindow = 72 * time.Hour
)

// ComputeDueAt derives the delivery deadline at payment confirmation.
// It is invoked exactly once per order and never recomputed.
func ComputeDueAt(now time.Time, rush bool) time.Time {
	if rush {
		return now.Add(rushDueWindow)
	}
	return now.Add(standardDueWindow)
}

// CanRequestRevision applies the strict quota check.
func CanRequestRevision(used, included int) bool {
	return used < included
}
