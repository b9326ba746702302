package okr

import (
	"errors"
	"fmt"
	"strings"

	"okr-tracker-api/internal/ident"
	"okr-tracker-api/internal/models"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports an invalid field before any store interaction.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) hold for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ObjectiveDraft is an objective that has not been persisted yet.
type ObjectiveDraft struct {
	Name        string
	Description string
	Type        models.ObjectiveType
	EmployeeID  *int64
	ParentID    *int64
	Year        int
	Status      models.ObjectiveStatus
}

// ValidateObjective checks a draft against the objective hierarchy of the
// snapshot: Organization objectives have no owner or parent, Employee
// objectives have an owner and link to an existing Organization objective.
func ValidateObjective(records models.Records, d ObjectiveDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "is required")
	}
	if !d.Type.Valid() {
		return invalid("type", "must be %s or %s", models.TypeOrganization, models.TypeEmployee)
	}
	if !d.Status.Valid() {
		return invalid("status", "unknown status %q", d.Status)
	}
	if d.Year <= 0 {
		return invalid("year", "must be positive")
	}

	switch d.Type {
	case models.TypeOrganization:
		if d.EmployeeID != nil {
			return invalid("employeeId", "organization objectives have no owner")
		}
		if d.ParentID != nil {
			return invalid("parentId", "organization objectives have no parent")
		}
	case models.TypeEmployee:
		if strings.TrimSpace(d.Description) == "" {
			return invalid("description", "is required")
		}
		if d.EmployeeID == nil {
			return invalid("employeeId", "is required")
		}
		if _, ok := FindEmployee(records, d.EmployeeID); !ok {
			return invalid("employeeId", "employee %d not found", *d.EmployeeID)
		}
		corporate := CorporateObjectives(records)
		if len(corporate) == 0 {
			return invalid("parentId", "no corporate objective to link to")
		}
		if d.ParentID == nil {
			return invalid("parentId", "is required")
		}
		found := false
		for _, c := range corporate {
			if ident.Equal(c.ID, d.ParentID) {
				found = true
				break
			}
		}
		if !found {
			return invalid("parentId", "corporate objective %d not found", *d.ParentID)
		}
	}
	return nil
}

// TaskDraft is a task that has not been persisted yet.
type TaskDraft struct {
	Name        string
	Status      models.TaskStatus
	ObjectiveID int64
}

// ValidateTask checks that a task has a name, a known status and a parent
// objective present in the snapshot.
func ValidateTask(records models.Records, d TaskDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "is required")
	}
	if !d.Status.Valid() {
		return invalid("status", "unknown status %q", d.Status)
	}
	if _, ok := FindObjective(records, d.ObjectiveID); !ok {
		return invalid("objectiveId", "objective %d not found", d.ObjectiveID)
	}
	return nil
}
