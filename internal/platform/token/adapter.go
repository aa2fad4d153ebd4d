package token

import (
	"dossier/internal/platform/middleware"
)

// ValidatorAdapter exposes JWTService through the middleware's validator
// interface.
type ValidatorAdapter struct {
	service *JWTService
}

func NewValidatorAdapter(service *JWTService) *ValidatorAdapter {
	return &ValidatorAdapter{service: service}
}

func (a *ValidatorAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		UserID: claims.UserID,
		Role:   claims.Role,
	}, nil
}
