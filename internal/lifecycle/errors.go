package lifecycle

import "fmt"

// InvalidTransitionError reports a target status not reachable from the
// current one per the transition table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// ForbiddenError reports an actor lacking authority for a transition.
type ForbiddenError struct {
	Actor Actor
	From  Status
	To    Status
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("actor %s may not transition %s to %s", e.Actor, e.From, e.To)
}

// QuotaExceededError reports a revision request beyond the included quota.
type QuotaExceededError struct {
	Used     int
	Included int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("revision quota exceeded: %d of %d used", e.Used, e.Included)
}
