package models

// Status tracks whether the process has resolved who is signed in. It starts
// Unresolved and moves exactly once into a resolved value; after that it only
// flips between Present and Absent, never back to Unresolved.
type Status int

const (
	StatusUnresolved Status = iota
	StatusPresent
	StatusAbsent
)

func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusAbsent:
		return "absent"
	default:
		return "unresolved"
	}
}

// Resolved reports whether the initial probe or a lifecycle event has settled
// the session. The route policy must not fire before this is true.
func (s Status) Resolved() bool { return s != StatusUnresolved }

// Session is the identity snapshot handed to readers. The zero value means
// "no session". Readers never mutate it; the authority owns the original.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	Device      string
}

// Present reports whether the session carries an identity.
func (s Session) Present() bool { return s.UserID != "" }

// EventKind names an authentication lifecycle event.
type EventKind string

const (
	EventInitialProbe   EventKind = "initial_probe"
	EventSignedIn       EventKind = "signed_in"
	EventTokenRefreshed EventKind = "token_refreshed"
	EventSignedOut      EventKind = "signed_out"
)

// LifecycleEvent is what the authentication provider delivers to listeners.
// Session is the zero value when the event carries no identity (sign-out).
type LifecycleEvent struct {
	Kind    EventKind
	Session Session
}
