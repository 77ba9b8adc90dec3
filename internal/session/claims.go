package session

import (
	"fmt"
	"time"

	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the display subset of the token's JWT payload.
//
// The signature is not verified; the service remains the authority on validity.
type Claims struct {
	Subject   string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the stored token's payload.
func (s *Session) Claims() (*Claims, error) {
	tok, ok := s.Token()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, mc); err != nil {
		return nil, fmt.Errorf("%w: token is not a JWT: %v", shared.ErrInvalidInput, err)
	}

	c := &Claims{}
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	for _, key := range []string{"username", "Username"} {
		if name, ok := mc[key].(string); ok {
			c.Username = name
			break
		}
	}

	return c, nil
}
