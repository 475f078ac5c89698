// Package auth identifies the current user. The CLI uses a Static session
// for the configured user; the HTTP API authenticates bearer tokens signed
// with JWT and revokes them through a Denylist on sign-out.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrNoSession is returned when nobody is signed in.
	ErrNoSession = errors.New("no session")

	// ErrInvalidToken wraps every bearer token verification failure.
	ErrInvalidToken = errors.New("invalid token")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Session is the authentication collaborator of the store.
type Session interface {
	CurrentUser(ctx context.Context) (User, error)
	SignOut(ctx context.Context) error
}

// Static is a session for a fixed user until SignOut.
type Static struct {
	mu   sync.RWMutex
	user *User
}

var _ Session = (*Static)(nil)

// NewStatic signs u in. An empty user id yields a signed-out session.
func NewStatic(u User) *Static {
	s := &Static{}
	if strings.TrimSpace(u.ID) != "" {
		s.user = &u
	}
	return s
}

func (s *Static) CurrentUser(context.Context) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, ErrNoSession
	}
	return *s.user, nil
}

func (s *Static) SignOut(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

type ctxKey int

const userKey ctxKey = 1

// WithUser attaches u to ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}
