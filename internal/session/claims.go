package session

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims are the fields of interest in a simplejwt access token
type Claims struct {
	UserID    string
	TokenType string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// ParseClaims decodes token without verifying its signature. The client never
// holds the signing key; this is only used to report expiry.
func ParseClaims(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, errors.Wrap(err, "failed to decode token")
	}

	claims := &Claims{}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, errors.Wrap(err, "invalid exp claim")
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	iat, err := mapClaims.GetIssuedAt()
	if err != nil {
		return nil, errors.Wrap(err, "invalid iat claim")
	}
	if iat != nil {
		claims.IssuedAt = iat.Time
	}

	switch v := mapClaims["user_id"].(type) {
	case string:
		claims.UserID = v
	case float64:
		claims.UserID = strconv.FormatInt(int64(v), 10)
	}
	if v, ok := mapClaims["token_type"].(string); ok {
		claims.TokenType = v
	}

	return claims, nil
}

// Expired reports whether the claims carry an expiry that has passed
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
