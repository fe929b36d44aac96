// Package guard decides whether a navigation may proceed given the session
// state and the roles a view requires.
package guard

import "strings"

// Decision is the outcome of guarding one navigation
type Decision int

const (
	// Pending means the session is still being restored; show a placeholder
	Pending Decision = iota
	// RedirectLogin sends an anonymous user to the login view
	RedirectLogin
	// RedirectHome sends a user lacking the required role to the home view
	RedirectHome
	// Allow renders the requested view
	Allow
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decide evaluates, in order: loading, authentication, then role membership.
// An empty required set admits any authenticated user. Roles compare
// case-insensitively.
func Decide(loading, authenticated bool, role string, required []string) Decision {
	if loading {
		return Pending
	}
	if !authenticated {
		return RedirectLogin
	}
	if len(required) == 0 {
		return Allow
	}
	if role == "" {
		return RedirectHome
	}
	for _, r := range required {
		if strings.EqualFold(r, role) {
			return Allow
		}
	}
	return RedirectHome
}

// SessionState is the part of the session the guard reads
type SessionState interface {
	Loading() bool
	IsAuthenticated() bool
	Role() string
}

// DecideFor runs Decide against a live session
func DecideFor(state SessionState, required []string) Decision {
	return Decide(state.Loading(), state.IsAuthenticated(), state.Role(), required)
}
