package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 24)

	require.Error(t, err, "пустой секрет недопустим")
}

func TestJWTService_GenerateAndParse(t *testing.T) {
	// Arrange
	svc, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	user := &entity.User{
		ID:       7,
		PublicID: "2f1c9a1e-0000-0000-0000-000000000007",
		Email:    "demo@quiz.com",
		Role:     "admin",
	}

	// Act
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	claims, err := svc.ParseToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "demo@quiz.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, user.PublicID, claims.Subject, "subject — публичный UUID пользователя")
}

func TestJWTService_ParseToken_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-one", 1)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-two", 1)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(&entity.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)

	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestJWTService_ParseToken_Garbage(t *testing.T) {
	svc, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	_, err = svc.ParseToken("not-a-jwt")

	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
