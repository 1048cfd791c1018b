package auth

import (
	"testing"
	"time"

	"asador-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "clave-de-prueba-larga-para-firmar-tokens"

func TestGenerateTokenRoundTrip(t *testing.T) {
	user := &models.User{
		ID:       7,
		Username: "maria",
		Role:     models.RoleHaykakan,
	}

	tokenStr, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*JWTCustomClaims)
	require.True(t, ok)
	require.EqualValues(t, 7, claims.UserID)
	require.Equal(t, "maria", claims.Username)
	require.Equal(t, models.RoleHaykakan, claims.Role)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Username: "x", Role: models.RoleFestero}
	tokenStr, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("otro-secreto-completamente-distinto!!"), nil
	})
	require.Error(t, err)
}
