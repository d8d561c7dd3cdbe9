package lifecycle

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusQuoteRequested     Status = "QUOTE_REQUESTED"
	StatusQuoted             Status = "QUOTED"
	StatusAwaitingPayment    Status = "AWAITING_PAYMENT"
	StatusPaid               Status = "PAID"
	StatusInReview           Status = "IN_REVIEW"
	StatusInProgress         Status = "IN_PROGRESS"
	StatusDelivered          Status = "DELIVERED"
	StatusRevisionRequested  Status = "REVISION_REQUESTED"
	StatusRevisionInProgress Status = "REVISION_IN_PROGRESS"
	StatusCompleted          Status = "COMPLETED"
	StatusCanceled           Status = "CANCELED"
	StatusRefunded           Status = "REFUNDED"
)

// transitions is the authoritative map of allowed status transitions.
// Every caller that moves an order forward goes through this table; no
// handler mutates status on its own.
var transitions = map[Status][]Status{
	StatusDraft:              {StatusAwaitingPayment, StatusQuoteRequested},
	StatusQuoteRequested:     {StatusQuoted},
	StatusQuoted:             {StatusAwaitingPayment},
	StatusAwaitingPayment:    {StatusPaid, StatusCanceled},
	StatusPaid:               {StatusInReview},
	StatusInReview:           {StatusInProgress},
	StatusInProgress:         {StatusDelivered},
	StatusDelivered:          {StatusRevisionRequested, StatusCompleted},
	StatusRevisionRequested:  {StatusRevisionInProgress},
	StatusRevisionInProgress: {StatusDelivered},
	StatusCompleted:          {},
	StatusCanceled:           {},
	StatusRefunded:           {},
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether the status is a member of the fixed enumeration.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled || s == StatusRefunded
}

// CanTransitionTo reports whether the transition from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// AllowedTargets returns the set of statuses directly reachable from s.
func (s Status) AllowedTargets() []Status {
	allowed, ok := transitions[s]
	if !ok {
		return nil
	}
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// Statuses returns all members of the enumeration.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusQuoteRequested,
		StatusQuoted,
		StatusAwaitingPayment,
		StatusPaid,
		StatusInReview,
		StatusInProgress,
		StatusDelivered,
		StatusRevisionRequested,
		StatusRevisionInProgress,
		StatusCompleted,
		StatusCanceled,
		StatusRefunded,
	}
}
