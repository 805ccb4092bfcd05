// Package session derives the client's authenticated identity from an opaque
// bearer credential and keeps it across process restarts.
//
// The credential is a JWT issued by the backend. The client never verifies its
// signature — it has no key material and the server re-checks the token on
// every call anyway — but it does enforce the embedded expiry locally so a
// dead credential resolves to "logged out" instead of a string of 401s.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/errors"
)

// Claims is the decoded shape of the bearer credential.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the account role embedded by the backend at login.
	Role string `json:"role"`
}

// Session is the client's locally-held belief about who is signed in.
//
// A Session is never constructed from an unparseable or expired credential;
// absence of a Session means "logged out".
type Session struct {
	// Subject is the authenticated username (the token's sub claim).
	Subject string

	// Role is the account role.
	Role access.Role

	// ExpiresAt is when the credential stops being valid.
	ExpiresAt time.Time
}

// Expired reports whether the session's credential has lapsed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// decode parses and validates a raw credential into a Session.
//
// Any decode failure and an elapsed expiry are treated identically by
// callers: no session. The distinct error codes only improve messaging.
func decode(raw string, now time.Time) (*Session, error) {
	if raw == "" {
		return nil, errors.NewInvalidCredentialError(nil)
	}

	token, _, err := jwt.NewParser().ParseUnverified(raw, &Claims{})
	if err != nil {
		return nil, errors.NewInvalidCredentialError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.NewInvalidCredentialError(nil)
	}

	if claims.Subject == "" {
		return nil, errors.NewInvalidCredentialError(nil)
	}

	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return nil, errors.NewInvalidCredentialError(err)
	}

	if claims.ExpiresAt == nil {
		return nil, errors.NewInvalidCredentialError(nil)
	}
	if !claims.ExpiresAt.Time.After(now) {
		return nil, errors.NewCredentialExpiredError()
	}

	return &Session{
		Subject:   claims.Subject,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
