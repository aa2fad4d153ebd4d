package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "dossier/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var userID = uuid.New()
var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	tokenString, err := jwtService.GenerateAccessToken(userID, "hr_reviewer", expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := jwtService.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "hr_reviewer", claims.Role)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	tokenString, err := jwtService.GenerateAccessToken(userID, "hr_reviewer", -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(tokenString)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("other-signing-key", "test-issuer", "test-audience")
	tokenString, err := other.GenerateAccessToken(userID, "hr_reviewer", expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(tokenString)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidatorAdapter(t *testing.T) {
	tokenString, err := jwtService.GenerateAccessToken(userID, "hr_reviewer", expiresIn)
	require.NoError(t, err)

	adapter := NewValidatorAdapter(jwtService)
	claims, err := adapter.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "hr_reviewer", claims.Role)
}
