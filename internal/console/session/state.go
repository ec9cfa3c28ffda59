package session

import (
	"shivaccounts.cloud/console/internal/console/rbac"
)

// State is the console's view of who is signed in and which page is active.
// Values are never mutated in place; Apply returns the successor.
type State struct {
	Authenticated bool      `json:"authenticated"`
	Email         string    `json:"email,omitempty"`
	Role          rbac.Role `json:"role,omitempty"`
	ActiveKey     string    `json:"activeKey,omitempty"`
}

// Event is a single state transition request.
type Event interface {
	event()
}

// LoginSucceeded records a successful login or signup.
type LoginSucceeded struct {
	Email string
	Role  rbac.Role
}

// Navigated selects a new active key.
type Navigated struct {
	Key string
}

// RoleSwitched changes the previewed role without touching the active key.
type RoleSwitched struct {
	Role rbac.Role
}

// LoggedOut clears the session.
type LoggedOut struct{}

func (LoginSucceeded) event() {}
func (Navigated) event()      {}
func (RoleSwitched) event()   {}
func (LoggedOut) event()      {}

// Apply returns the state that results from ev. Unknown events and events that
// are not permitted in the current state return s unchanged.
func Apply(s State, ev Event) State {
	switch e := ev.(type) {
	case LoginSucceeded:
		return State{
			Authenticated: true,
			Email:         e.Email,
			Role:          e.Role,
			ActiveKey:     rbac.HomeKey(e.Role),
		}
	case Navigated:
		if !s.Authenticated {
			return s
		}
		s.ActiveKey = e.Key
		return s
	case RoleSwitched:
		if !s.Authenticated || !e.Role.Valid() {
			return s
		}
		s.Role = e.Role
		return s
	case LoggedOut:
		return State{}
	default:
		return s
	}
}
