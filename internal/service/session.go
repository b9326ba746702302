package service

import (
	"context"
	"errors"

	"okr-tracker-api/internal/assistant"
	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/metrics"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/okr"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token    string          `json:"token"`
	Employee models.Employee `json:"employee"`
}

// Login checks the credentials against the employees table and opens a
// session.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if s.sessions == nil {
		return LoginResult{}, errors.New("sessions are not configured")
	}
	records, err := s.Records(ctx)
	if err != nil {
		return LoginResult{}, err
	}
	token, claims, err := s.sessions.Login(records.Employees, email, password)
	metrics.ObserveLogin(err == nil)
	if err != nil {
		return LoginResult{}, err
	}
	emp, _ := okr.FindEmployee(records, claims.UserID)
	return LoginResult{Token: token, Employee: emp}, nil
}

// Logout revokes the session token and forgets the assistant conversation.
func (s *Service) Logout(claims *auth.Claims) {
	if claims == nil {
		return
	}
	if s.sessions != nil {
		s.sessions.Logout(claims)
	}
	s.assistant.History().Forget(claims.UserID)
}

func (s *Service) assistantUser(ctx context.Context, actor Actor) (assistant.User, models.Records, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return assistant.User{}, models.Records{}, err
	}
	user := assistant.User{ID: actor.EmployeeID, Role: actor.Role}
	if e, ok := okr.FindEmployee(records, actor.EmployeeID); ok {
		user.Name = e.Name
	}
	return user, records, nil
}

// Ask forwards a question to the assistant with the actor's objectives as
// context. Assistant failures come back as text, not errors.
func (s *Service) Ask(ctx context.Context, actor Actor, prompt string) (string, error) {
	user, records, err := s.assistantUser(ctx, actor)
	if err != nil {
		return "", err
	}
	owned := okr.OwnedObjectives(records, actor.EmployeeID)
	views := make([]okr.ObjectiveView, 0, len(owned))
	for _, o := range owned {
		views = append(views, okr.ObjectiveProgress(records, o))
	}
	return s.assistant.Ask(ctx, user, views, prompt), nil
}

// Conversation returns the actor's assistant history.
func (s *Service) Conversation(ctx context.Context, actor Actor) ([]assistant.Message, error) {
	user, _, err := s.assistantUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.assistant.History().Messages(user), nil
}
