package auth

import (
	"testing"

	"okr-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

func employeesWithPasswords(t *testing.T) []models.Employee {
	t.Helper()
	managerHash, err := HashPassword("manager123")
	require.NoError(t, err)
	empHash, err := HashPassword("emp123")
	require.NoError(t, err)
	return []models.Employee{
		{ID: 1, Name: "Marta", Email: "manager@gmail.com", PasswordHash: managerHash, Role: models.RoleManager},
		{ID: 2, Name: "Pablo", Email: "empleado@gmail.com", PasswordHash: empHash, Role: models.RoleEmployee},
	}
}

func TestHashPassword_NotPlaintext(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)
	require.True(t, CheckPassword(hash, "secret"))
	require.False(t, CheckPassword(hash, "Secret"))

	_, err = HashPassword("")
	require.Error(t, err)
}

func TestCheckCredentials(t *testing.T) {
	employees := employeesWithPasswords(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantID   int64
	}{
		{"manager", "manager@gmail.com", "manager123", 1},
		{"employee", "empleado@gmail.com", "emp123", 2},
		{"wrong password", "manager@gmail.com", "emp123", 0},
		{"unknown email", "nobody@gmail.com", "manager123", 0},
		{"email is case sensitive", "Manager@gmail.com", "manager123", 0},
		{"empty password", "manager@gmail.com", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCredentials(employees, tt.email, tt.password)
			if tt.wantID == 0 {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSessions_LoginLogout(t *testing.T) {
	sessions := NewSessions(newTestTokens(t))
	employees := employeesWithPasswords(t)

	require.False(t, sessions.Resolve("").Authenticated)

	_, _, err := sessions.Login(employees, "manager@gmail.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	token, claims, err := sessions.Login(employees, "manager@gmail.com", "manager123")
	require.NoError(t, err)

	session := sessions.Resolve(token)
	require.True(t, session.Authenticated)
	require.True(t, session.User.IsManager())

	sessions.Logout(claims)
	_, err = sessions.Authenticate(token)
	require.ErrorIs(t, err, ErrRevoked)
	require.False(t, sessions.Resolve(token).Authenticated)
}
