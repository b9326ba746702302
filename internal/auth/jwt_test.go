package auth

import (
	"testing"
	"time"

	"okr-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens(TokenConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "okr-tracker-api",
		Audience: "okr-tracker-clients",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func TestGenerateAndValidateToken(t *testing.T) {
	tokens := newTestTokens(t)
	emp := &models.Employee{ID: 7, Email: "ana@corp.test", Role: models.RoleEmployee}

	signed, issued, err := tokens.Generate(emp)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.NotEmpty(t, issued.ID)

	claims, err := tokens.Validate(signed)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "ana@corp.test", claims.Email)
	require.Equal(t, models.RoleEmployee, claims.Role)
	require.False(t, claims.IsManager())
	require.Equal(t, issued.ID, claims.ID)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := newTestTokens(t).Validate("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	issuer := newTestTokens(t)
	signed, _, err := issuer.Generate(&models.Employee{ID: 1, Role: models.RoleManager})
	require.NoError(t, err)

	other, err := NewTokens(TokenConfig{Secret: []byte("test-secret"), Issuer: "okr-tracker-api", Audience: "someone-else"})
	require.NoError(t, err)
	_, err = other.Validate(signed)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	tokens := newTestTokens(t)
	base := time.Now()
	tokens.clock = func() time.Time { return base }

	signed, _, err := tokens.Generate(&models.Employee{ID: 1, Role: models.RoleManager})
	require.NoError(t, err)

	tokens.clock = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = tokens.Validate(signed)
	require.Error(t, err)
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	_, err := NewTokens(TokenConfig{})
	require.Error(t, err)
}
