package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"okr-tracker-api/internal/database"
	"okr-tracker-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements Store on gorm (sqlite or postgres).
//
// Numeric ids are left to the database: sqlite's INTEGER PRIMARY KEY and
// postgres identity columns both assign them atomically on insert. Task ids
// are random UUIDs.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open, migrated database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying connection for maintenance tasks.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// ResyncSequences realigns id generators after rows were inserted with
// explicit ids.
func (s *GormStore) ResyncSequences(ctx context.Context) error {
	return database.ResyncSequences(s.db.WithContext(ctx))
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}

// Snapshot reads all four tables.
func (s *GormStore) Snapshot(ctx context.Context) (models.Records, error) {
	var records models.Records
	var err error
	if records.Employees, err = s.ReadEmployees(ctx); err != nil {
		return models.Records{}, err
	}
	if records.Areas, err = s.ReadAreas(ctx); err != nil {
		return models.Records{}, err
	}
	if records.Objectives, err = s.ReadObjectives(ctx); err != nil {
		return models.Records{}, err
	}
	if records.Tasks, err = s.ReadTasks(ctx); err != nil {
		return models.Records{}, err
	}
	return records, nil
}

func (s *GormStore) ReadEmployees(ctx context.Context) ([]models.Employee, error) {
	var out []models.Employee
	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("read employees: %w", err)
	}
	return out, nil
}

func (s *GormStore) ReadAreas(ctx context.Context) ([]models.Area, error) {
	var out []models.Area
	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("read areas: %w", err)
	}
	return out, nil
}

func (s *GormStore) ReadObjectives(ctx context.Context) ([]models.Objective, error) {
	var out []models.Objective
	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("read objectives: %w", err)
	}
	return out, nil
}

func (s *GormStore) ReadTasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return out, nil
}

// FindEmployeeByEmail returns ErrNotFound when no employee has that email.
func (s *GormStore) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var e models.Employee
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &e, nil
}

func (s *GormStore) InsertEmployee(ctx context.Context, e *models.Employee) error {
	return s.insert(ctx, "employee", e)
}

func (s *GormStore) InsertArea(ctx context.Context, a *models.Area) error {
	return s.insert(ctx, "area", a)
}

func (s *GormStore) InsertObjective(ctx context.Context, o *models.Objective) error {
	return s.insert(ctx, "objective", o)
}

// InsertTask assigns a UUID when the task has no id.
func (s *GormStore) InsertTask(ctx context.Context, t *models.Task) error {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.New().String()
	}
	return s.insert(ctx, "task", t)
}

func (s *GormStore) insert(ctx context.Context, kind string, value any) error {
	err := s.db.WithContext(ctx).Create(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return fmt.Errorf("insert %s: %w", kind, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

// UpdateObjectiveStatus overwrites only the status column.
func (s *GormStore) UpdateObjectiveStatus(ctx context.Context, id int64, status models.ObjectiveStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Objective{}).Where("id = ?", id).UpdateColumn("status", status)
	if res.Error != nil {
		return fmt.Errorf("update objective %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("objective %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateTaskStatus overwrites only the status column.
func (s *GormStore) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).UpdateColumn("status", status)
	if res.Error != nil {
		return fmt.Errorf("update task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteObjective removes the objective and its tasks. Unknown ids succeed.
func (s *GormStore) DeleteObjective(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("objective_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Objective{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete objective %d: %w", id, err)
	}
	return nil
}

// DeleteTask removes the task. Unknown ids succeed.
func (s *GormStore) DeleteTask(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// isUniqueViolation covers drivers that do not translate errors for gorm.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

var _ Store = (*GormStore)(nil)
