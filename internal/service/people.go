package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/ident"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/okr"
	"okr-tracker-api/internal/realtime"
	"okr-tracker-api/internal/store"
)

type EmployeeInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Area     string `json:"area"`
}

type AreaInput struct {
	Name string `json:"name"`
}

// CreateEmployee registers an account. Managers only.
func (s *Service) CreateEmployee(ctx context.Context, actor Actor, in EmployeeInput) (models.Employee, error) {
	if !actor.IsManager() {
		return models.Employee{}, ErrForbidden
	}

	e := models.Employee{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Area:  strings.TrimSpace(in.Area),
		Role:  models.RoleEmployee,
	}
	if e.Name == "" {
		return models.Employee{}, validation("name", "is required")
	}
	if addr, err := mail.ParseAddress(e.Email); err != nil || addr.Address != e.Email {
		return models.Employee{}, validation("email", "must be a valid address")
	}
	if in.Password == "" {
		return models.Employee{}, validation("password", "is required")
	}
	if strings.TrimSpace(in.Role) != "" {
		role, ok := models.ParseRole(in.Role)
		if !ok {
			return models.Employee{}, validation("role", "must be manager or employee")
		}
		e.Role = role
	}

	records, err := s.Records(ctx)
	if err != nil {
		return models.Employee{}, err
	}
	for _, existing := range records.Employees {
		if strings.EqualFold(existing.Email, e.Email) {
			return models.Employee{}, validation("email", "is already registered")
		}
	}
	if e.Area != "" && len(records.Areas) > 0 {
		known := false
		for _, a := range records.Areas {
			if strings.EqualFold(a.Name, e.Area) {
				e.Area = a.Name
				known = true
				break
			}
		}
		if !known {
			return models.Employee{}, validation("area", "unknown area "+e.Area)
		}
	}

	if e.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
		return models.Employee{}, err
	}

	err = s.store.InsertEmployee(ctx, &e)
	s.changed(ctx, "employee", "create", realtime.Event{Type: realtime.EmployeeCreated, ID: ident.Normalize(e.ID), UserID: e.ID}, err)
	if errors.Is(err, store.ErrConflict) {
		return models.Employee{}, validation("email", "is already registered")
	}
	if err != nil {
		return models.Employee{}, err
	}
	return e, nil
}

// CreateArea adds an organizational area. Managers only.
func (s *Service) CreateArea(ctx context.Context, actor Actor, in AreaInput) (models.Area, error) {
	if !actor.IsManager() {
		return models.Area{}, ErrForbidden
	}
	a := models.Area{Name: strings.TrimSpace(in.Name)}
	if a.Name == "" {
		return models.Area{}, validation("name", "is required")
	}

	records, err := s.Records(ctx)
	if err != nil {
		return models.Area{}, err
	}
	for _, existing := range records.Areas {
		if strings.EqualFold(existing.Name, a.Name) {
			return models.Area{}, validation("name", "area already exists")
		}
	}

	err = s.store.InsertArea(ctx, &a)
	s.changed(ctx, "area", "create", realtime.Event{Type: realtime.AreaCreated, ID: ident.Normalize(a.ID)}, err)
	if errors.Is(err, store.ErrConflict) {
		return models.Area{}, validation("name", "area already exists")
	}
	if err != nil {
		return models.Area{}, err
	}
	return a, nil
}

func (s *Service) Employees(ctx context.Context, actor Actor) ([]models.Employee, error) {
	if !actor.IsManager() {
		return nil, ErrForbidden
	}
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return records.Employees, nil
}

func (s *Service) Areas(ctx context.Context) ([]models.Area, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return records.Areas, nil
}

// Me returns the actor's own account.
func (s *Service) Me(ctx context.Context, actor Actor) (models.Employee, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return models.Employee{}, err
	}
	e, ok := okr.FindEmployee(records, actor.EmployeeID)
	if !ok {
		return models.Employee{}, notFound("employee", actor.EmployeeID)
	}
	return e, nil
}
