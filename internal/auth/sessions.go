package auth

import (
	"errors"

	"okr-tracker-api/internal/cache"
	"okr-tracker-api/internal/models"
)

// ErrRevoked is returned for tokens that were logged out.
var ErrRevoked = errors.New("token has been revoked")

// Session is what a request knows about its caller. The zero value is the
// anonymous session.
type Session struct {
	Authenticated bool
	User          *Claims
}

// Sessions issues tokens on login and remembers logged-out token ids until
// the tokens would have expired anyway.
type Sessions struct {
	tokens  *Tokens
	revoked *cache.SimpleCache[string, struct{}]
}

func NewSessions(tokens *Tokens) *Sessions {
	return &Sessions{
		tokens: tokens,
		revoked: cache.NewSimpleCache[string, struct{}](cache.Options{
			ConcurrencySafe: true,
			Clock:           tokens.clock,
		}),
	}
}

// Login checks the credentials against employees and issues a token.
func (s *Sessions) Login(employees []models.Employee, email, password string) (string, *Claims, error) {
	emp := CheckCredentials(employees, email, password)
	if emp == nil {
		return "", nil, ErrInvalidCredentials
	}
	return s.tokens.Generate(emp)
}

// Logout revokes the token identified by claims.
func (s *Sessions) Logout(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.tokens.clock())
	}
	if ttl <= 0 {
		return
	}
	s.revoked.Set(claims.ID, struct{}{}, ttl)
	s.revoked.PurgeExpired()
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *Sessions) Authenticate(token string) (*Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	if s.revoked.Has(claims.ID) {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Resolve maps a token to a Session, anonymous when the token is unusable.
func (s *Sessions) Resolve(token string) Session {
	if token == "" {
		return Session{}
	}
	claims, err := s.Authenticate(token)
	if err != nil {
		return Session{}
	}
	return Session{Authenticated: true, User: claims}
}
