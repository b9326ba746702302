package service

import (
	"context"
	"fmt"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/store"
)

// Demo accounts created by Seed.
const (
	SeedManagerEmail     = "manager@gmail.com"
	SeedManagerPassword  = "manager123"
	SeedEmployeeEmail    = "empleado@gmail.com"
	SeedEmployeePassword = "emp123"
)

// Seed creates the demo accounts, one area and one corporate objective for
// year. It does nothing when employees already exist and reports whether it
// wrote anything.
func Seed(ctx context.Context, st store.Store, year int) (bool, error) {
	existing, err := st.ReadEmployees(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	if err := st.InsertArea(ctx, &models.Area{Name: "General"}); err != nil {
		return false, fmt.Errorf("seeding area: %w", err)
	}

	accounts := []struct {
		name, email, password string
		role                  models.Role
	}{
		{"Manager", SeedManagerEmail, SeedManagerPassword, models.RoleManager},
		{"Empleado", SeedEmployeeEmail, SeedEmployeePassword, models.RoleEmployee},
	}
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return false, err
		}
		e := models.Employee{Name: a.name, Email: a.email, PasswordHash: hash, Role: a.role, Area: "General"}
		if err := st.InsertEmployee(ctx, &e); err != nil {
			return false, fmt.Errorf("seeding %s: %w", a.email, err)
		}
	}

	objectives, err := st.ReadObjectives(ctx)
	if err != nil {
		return false, err
	}
	if len(objectives) == 0 {
		o := models.Objective{
			Name:        "Grow the business",
			Description: "Company objective for the year",
			Type:        models.TypeOrganization,
			Year:        year,
			Status:      models.ObjectiveNew,
		}
		if err := st.InsertObjective(ctx, &o); err != nil {
			return false, fmt.Errorf("seeding objective: %w", err)
		}
	}
	return true, nil
}
