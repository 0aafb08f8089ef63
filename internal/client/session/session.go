// Package session owns the client's authentication state.
//
// A Manager moves through Initializing → Unauthenticated ⇄ Authenticated.
// It is the only component that reads or writes the credential store, and it
// publishes every transition synchronously to its subscribers.
package session

import "github.com/dmitrijs2005/fittrack/internal/client/models"

type Status int

const (
	StatusInitializing Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the authentication state. Token and User are set
// only when Status is StatusAuthenticated.
type Session struct {
	Status Status
	Token  string
	User   *models.User
}

func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

func (s Session) clone() Session {
	s.User = s.User.Clone()
	return s
}

func authenticated(token string, user *models.User) Session {
	return Session{Status: StatusAuthenticated, Token: token, User: user.Clone()}
}

func unauthenticated() Session {
	return Session{Status: StatusUnauthenticated}
}
