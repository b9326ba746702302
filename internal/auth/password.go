package auth

import (
	"errors"
	"fmt"
	"strings"

	"okr-tracker-api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when an email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckCredentials returns the employee whose email matches exactly and
// whose password hash accepts password, or nil.
func CheckCredentials(employees []models.Employee, email, password string) *models.Employee {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	for i := range employees {
		if employees[i].Email != email {
			continue
		}
		if CheckPassword(employees[i].PasswordHash, password) {
			emp := employees[i]
			return &emp
		}
		return nil
	}
	return nil
}
