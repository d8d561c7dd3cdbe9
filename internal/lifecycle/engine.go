package lifecycle

import "time"

// OrderState is the mutable slice of an order the engine operates on.
// Callers copy it out of their persisted record, apply a transition, and
// write the result back in the same transaction as the history append.
type OrderState struct {
	Status            Status
	PaymentStatus     PaymentStatus
	RevisionsUsed     int
	RevisionsIncluded int
	Rush              bool
	PaidAt            *time.Time
	DueAt             *time.Time
}

// Transition records one successful status change. Exactly one is produced
// per applied transition and is appended to the order's status history.
type Transition struct {
	From  Status
	To    Status
	Actor Actor
	At    time.Time
}

// Engine validates and applies order status transitions. All entry points
// (HTTP handlers, admin tools, webhooks) route through it; none mutate
// status directly.
type Engine struct {
	authorize AuthorizeFunc
}

// NewEngine constructs an Engine with the supplied authorization policy.
// A nil policy falls back to DefaultAuthorize.
func NewEngine(authorize AuthorizeFunc) *Engine {
	if authorize == nil {
		authorize = DefaultAuthorize
	}
	return &Engine{authorize: authorize}
}

// Apply validates the requested transition and, on success, mutates state in
// place and returns the Transition to append to the history. All guard
// failures are detected before any mutation; a returned error leaves state
// untouched.
func (e *Engine) Apply(state *OrderState, target Status, actor Actor, now time.Time) (Transition, error) {
	from := state.Status

	if !target.Valid() || !from.CanTransitionTo(target) {
		return Transition{}, &InvalidTransitionError{From: from, To: target}
	}
	if !e.authorize(actor, from, target) {
		return Transition{}, &ForbiddenError{Actor: actor, From: from, To: target}
	}
	if target == StatusRevisionRequested && !CanRequestRevision(state.RevisionsUsed, state.RevisionsIncluded) {
		return Transition{}, &QuotaExceededError{Used: state.RevisionsUsed, Included: state.RevisionsIncluded}
	}

	state.Status = target
	switch target {
	case StatusPaid:
		paidAt := now
		dueAt := ComputeDueAt(now, state.Rush)
		state.PaymentStatus = PaymentPaid
		state.PaidAt = &paidAt
		state.DueAt = &dueAt
	case StatusRevisionRequested:
		state.RevisionsUsed++
	}

	return Transition{From: from, To: target, Actor: actor, At: now}, nil
}
