package app

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenInfo describes the stored token for display. Claims are decoded
// without signature verification; the backend remains the authority.
type TokenInfo struct {
	Profile   string         `json:"profile"`
	Opaque    bool           `json:"opaque"`
	Subject   string         `json:"subject,omitempty"`
	IssuedAt  *time.Time     `json:"issued_at,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Claims    map[string]any `json:"claims,omitempty"`
}

// Inspect decodes the stored token's claims, if it is a JWT.
func (s *Session) Inspect() (TokenInfo, error) {
	token, err := s.token()
	if err != nil {
		return TokenInfo{}, err
	}
	return decodeTokenInfo(s.profile, token), nil
}

func decodeTokenInfo(profile, token string) TokenInfo {
	info := TokenInfo{Profile: profile}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		info.Opaque = true
		return info
	}

	info.Claims = claims
	if sub, ok := claims["sub"].(string); ok {
		info.Subject = sub
	}
	info.IssuedAt = unixClaim(claims, "iat")
	info.ExpiresAt = unixClaim(claims, "exp")
	return info
}

func unixClaim(claims jwt.MapClaims, key string) *time.Time {
	v, ok := claims[key].(float64)
	if !ok {
		return nil
	}
	t := time.Unix(int64(v), 0).UTC()
	return &t
}
