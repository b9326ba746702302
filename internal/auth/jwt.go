package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"okr-tracker-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig configures token signing and validation.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims represents the JWT claims
type Claims struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsManager reports whether the token belongs to a manager.
func (c *Claims) IsManager() bool { return c.Role == models.RoleManager }

// Tokens signs and validates session tokens.
type Tokens struct {
	cfg   TokenConfig
	clock func() time.Time
}

func NewTokens(cfg TokenConfig) (*Tokens, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Tokens{cfg: cfg, clock: time.Now}, nil
}

// TTL is the lifetime of freshly issued tokens.
func (t *Tokens) TTL() time.Duration { return t.cfg.TTL }

// Generate signs a token for the given employee
func (t *Tokens) Generate(emp *models.Employee) (string, *Claims, error) {
	now := t.clock()
	claims := &Claims{
		UserID: emp.ID,
		Email:  emp.Email,
		Role:   emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(emp.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses a token and checks signature, expiry, issuer and audience
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.cfg.Secret, nil
	}, jwt.WithTimeFunc(t.clock))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Issuer != t.cfg.Issuer {
		return nil, errors.New("invalid token issuer")
	}
	if !slices.Contains(claims.Audience, t.cfg.Audience) {
		return nil, errors.New("invalid token audience")
	}
	if !claims.Role.Valid() || claims.UserID <= 0 {
		return nil, errors.New("invalid token subject")
	}
	return claims, nil
}
