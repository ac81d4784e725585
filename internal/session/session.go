// Package session holds the operator's authenticated state. The token is
// carried in an explicit Session object injected into each collaborator
// rather than read from ambient global storage.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/minhthien1995/booking-football-cms/internal/fieldapi"
)

// Session is one operator's authenticated console session.
type Session struct {
	token     string
	admin     fieldapi.Admin
	expiresAt time.Time // zero when the token carries no exp claim
}

// New builds a session from a login result. The token's claims are peeked
// without signature verification: the server remains the authority, the
// console only uses exp for a re-login warning.
func New(token string, admin fieldapi.Admin) *Session {
	s := &Session{token: token, admin: admin}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.expiresAt = exp.Time
		}
	}
	return s
}

// Token returns the bearer token for API calls.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Admin returns the logged-in operator profile.
func (s *Session) Admin() fieldapi.Admin {
	if s == nil {
		return fieldapi.Admin{}
	}
	return s.admin
}

// IsSuperadmin reports whether the operator holds the superadmin role.
func (s *Session) IsSuperadmin() bool {
	return s != nil && s.admin.Role == "superadmin"
}

// ExpiresAt returns the token expiry when the token carried an exp claim.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil || s.expiresAt.IsZero() {
		return time.Time{}, false
	}
	return s.expiresAt, true
}

// ExpiresWithin reports whether the token expires within d of now. Tokens
// without an exp claim never report as expiring.
func (s *Session) ExpiresWithin(d time.Duration, now time.Time) bool {
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return exp.Before(now.Add(d))
}

type ctxKey string

const sessionKey ctxKey = "fieldcms.session"

// WithSession stores the session in context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session if present.
func FromContext(ctx context.Context) (*Session, bool) {
	val := ctx.Value(sessionKey)
	if val == nil {
		return nil, false
	}
	s, ok := val.(*Session)
	return s, ok && s != nil
}
