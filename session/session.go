// Package session carries the authenticated identity through the engine.
//
// The session is created once at login and passed explicitly to every
// component that needs identity, rather than being looked up from ambient
// process state at call sites.
package session

import (
	"errors"
	"time"
)

// ErrIdentityMissing is returned when no authenticated user identity is
// available. It is fatal for any operation that reaches the backend.
var ErrIdentityMissing = errors.New("user identity is required")

// Session is the authenticated identity context for one login.
type Session struct {
	UserID    string
	Email     string
	Stage     string
	CreatedAt time.Time
}

// New creates a session for the given identity. UserID is mandatory.
func New(userID, email, stage string) (*Session, error) {
	if userID == "" {
		return nil, ErrIdentityMissing
	}
	return &Session{
		UserID:    userID,
		Email:     email,
		Stage:     stage,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Valid reports whether the session carries a usable identity.
func (s *Session) Valid() bool {
	return s != nil && s.UserID != ""
}
