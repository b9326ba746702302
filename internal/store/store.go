// Package store persists employees, areas, objectives and tasks. It is the
// only package that talks to the database.
package store

import (
	"context"
	"errors"

	"okr-tracker-api/internal/models"
)

var (
	// ErrNotFound is returned by updates that target an unknown id.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique column already holds the value.
	ErrConflict = errors.New("record already exists")
)

// Store is the tabular store behind the API.
type Store interface {
	Snapshot(ctx context.Context) (models.Records, error)

	ReadEmployees(ctx context.Context) ([]models.Employee, error)
	ReadAreas(ctx context.Context) ([]models.Area, error)
	ReadObjectives(ctx context.Context) ([]models.Objective, error)
	ReadTasks(ctx context.Context) ([]models.Task, error)

	FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)

	InsertEmployee(ctx context.Context, e *models.Employee) error
	InsertArea(ctx context.Context, a *models.Area) error
	InsertObjective(ctx context.Context, o *models.Objective) error
	InsertTask(ctx context.Context, t *models.Task) error

	UpdateObjectiveStatus(ctx context.Context, id int64, status models.ObjectiveStatus) error
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) error

	DeleteObjective(ctx context.Context, id int64) error
	DeleteTask(ctx context.Context, id string) error
}
