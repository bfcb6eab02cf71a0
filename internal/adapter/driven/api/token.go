package api

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

// InspectToken reads the subject and expiry from a JWT access token without
// verifying its signature. The client has no key to verify with; the result
// is for display only and must never be used for authorization decisions.
func InspectToken(token string) (model.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	out := model.TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}
