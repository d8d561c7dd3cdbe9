package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}
	assert.False(t, Status("SHIPPED").Valid())
	assert.False(t, Status("").Valid())
}

func TestTerminalStatusesHaveNoTargets(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCanceled, StatusRefunded} {
		require.True(t, s.IsTerminal())
		assert.Empty(t, s.AllowedTargets(), "terminal status %s must not allow transitions", s)
	}
	assert.False(t, StatusDelivered.IsTerminal())
}

func TestCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
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
	}

	isAllowed := func(from, to Status) bool {
		for _, a := range allowed[from] {
			if a == to {
				return true
			}
		}
		return false
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			assert.Equal(t, isAllowed(from, to), from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionFromUnknownStatus(t *testing.T) {
	assert.False(t, Status("LIMBO").CanTransitionTo(StatusPaid))
	assert.Nil(t, Status("LIMBO").AllowedTargets())
}

func TestRevisionLoopIsTheOnlyBackEdge(t *testing.T) {
	// DELIVERED -> REVISION_REQUESTED -> REVISION_IN_PROGRESS -> DELIVERED
	require.True(t, StatusDelivered.CanTransitionTo(StatusRevisionRequested))
	require.True(t, StatusRevisionRequested.CanTransitionTo(StatusRevisionInProgress))
	require.True(t, StatusRevisionInProgress.CanTransitionTo(StatusDelivered))
}
