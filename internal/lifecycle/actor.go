package lifecycle

// Actor identifies who is attempting a transition.
type Actor string

const (
	ActorClient Actor = "client"
	ActorAdmin  Actor = "admin"
	ActorSystem Actor = "system"
)

// String returns the string representation of the actor.
func (a Actor) String() string {
	return string(a)
}

// Valid reports whether the actor is a known role.
func (a Actor) Valid() bool {
	switch a {
	case ActorClient, ActorAdmin, ActorSystem:
		return true
	}
	return false
}

// AuthorizeFunc decides whether an actor may trigger a given transition.
// It is injected into the Engine so identity-provider mechanics stay out of
// the domain package.
type AuthorizeFunc func(actor Actor, from, to Status) bool

// DefaultAuthorize implements the marketplace authorization rules: clients
// may only approve a delivery or request a revision on it; every other
// transition requires an administrative actor or an automated system event.
func DefaultAuthorize(actor Actor, from, to Status) bool {
	switch actor {
	case ActorAdmin, ActorSystem:
		return true
	case ActorClient:
		if from != StatusDelivered {
			return false
		}
		return to == StatusRevisionRequested || to == StatusCompleted
	}
	return false
}
