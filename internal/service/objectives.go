package service

import (
	"context"
	"strconv"
	"strings"

	"okr-tracker-api/internal/ident"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/okr"
	"okr-tracker-api/internal/realtime"
)

// ObjectiveInput is the body of a create request. Ids may arrive as numbers
// or strings.
type ObjectiveInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	EmployeeID  ident.ID `json:"employeeId"`
	ParentID    ident.ID `json:"parentId"`
	Year        int      `json:"year"`
	Status      string   `json:"status"`
}

func validation(field, message string) error {
	return &okr.ValidationError{Field: field, Message: message}
}

func parseObjectiveID(id any) (int64, error) {
	n, err := ident.Int64(id)
	if err != nil {
		return 0, validation("id", "must be a numeric identifier")
	}
	return n, nil
}

func ownedBy(o models.Objective, employeeID int64) bool {
	return o.EmployeeID != nil && *o.EmployeeID == employeeID
}

// CreateObjective validates the input against the current snapshot and
// stores it. Employees may only create personal objectives for themselves.
func (s *Service) CreateObjective(ctx context.Context, actor Actor, in ObjectiveInput) (models.Objective, error) {
	typ, _ := models.ParseObjectiveType(in.Type)
	if strings.TrimSpace(in.Type) == "" && !actor.IsManager() {
		typ = models.TypeEmployee
	}

	status := models.ObjectiveNew
	if strings.TrimSpace(in.Status) != "" {
		status, _ = models.ParseObjectiveStatus(in.Status)
	}

	owner, err := in.EmployeeID.Ptr()
	if err != nil {
		return models.Objective{}, validation("employeeId", "must be a numeric identifier")
	}
	parent, err := in.ParentID.Ptr()
	if err != nil {
		return models.Objective{}, validation("parentId", "must be a numeric identifier")
	}
	if typ == models.TypeEmployee && owner == nil {
		self := actor.EmployeeID
		owner = &self
	}

	if !actor.IsManager() {
		if typ != models.TypeEmployee || owner == nil || *owner != actor.EmployeeID {
			return models.Objective{}, ErrForbidden
		}
	}

	year := in.Year
	if year == 0 {
		year = s.currentYear()
	}

	draft := okr.ObjectiveDraft{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Type:        typ,
		EmployeeID:  owner,
		ParentID:    parent,
		Year:        year,
		Status:      status,
	}
	records, err := s.Records(ctx)
	if err != nil {
		return models.Objective{}, err
	}
	if err := okr.ValidateObjective(records, draft); err != nil {
		return models.Objective{}, err
	}

	o := models.Objective{
		Name:        draft.Name,
		Description: draft.Description,
		Type:        draft.Type,
		EmployeeID:  draft.EmployeeID,
		ParentID:    draft.ParentID,
		Year:        draft.Year,
		Status:      draft.Status,
	}
	err = s.store.InsertObjective(ctx, &o)
	s.changed(ctx, "objective", "create", realtime.Event{
		Type:   realtime.ObjectiveCreated,
		ID:     ident.Normalize(o.ID),
		UserID: ownerOf(o),
	}, err)
	if err != nil {
		return models.Objective{}, err
	}
	return o, nil
}

func ownerOf(o models.Objective) int64 {
	if o.EmployeeID == nil {
		return 0
	}
	return *o.EmployeeID
}

// objectiveFor resolves an objective the actor is allowed to modify.
func (s *Service) objectiveFor(ctx context.Context, actor Actor, id int64) (models.Objective, bool, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return models.Objective{}, false, err
	}
	o, ok := okr.FindObjective(records, id)
	if !ok {
		return models.Objective{}, false, nil
	}
	if !actor.IsManager() && !ownedBy(o, actor.EmployeeID) {
		return models.Objective{}, true, ErrForbidden
	}
	return o, true, nil
}

// UpdateObjectiveStatus overwrites the status. Any status may follow any
// other.
func (s *Service) UpdateObjectiveStatus(ctx context.Context, actor Actor, id any, rawStatus string) error {
	oid, err := parseObjectiveID(id)
	if err != nil {
		return err
	}
	status, ok := models.ParseObjectiveStatus(rawStatus)
	if !ok {
		return validation("status", "unknown status "+strconv.Quote(rawStatus))
	}

	o, found, err := s.objectiveFor(ctx, actor, oid)
	if err != nil {
		return err
	}
	if !found {
		return notFound("objective", oid)
	}

	err = s.store.UpdateObjectiveStatus(ctx, oid, status)
	s.changed(ctx, "objective", "update", realtime.Event{
		Type:   realtime.ObjectiveUpdated,
		ID:     ident.Normalize(oid),
		UserID: ownerOf(o),
	}, err)
	return err
}

// DeleteObjective removes the objective and its tasks. Deleting an unknown
// or malformed id succeeds without touching the store.
func (s *Service) DeleteObjective(ctx context.Context, actor Actor, id any) error {
	oid, err := ident.Int64(id)
	if err != nil {
		// a non-numeric id names no objective
		return nil
	}
	o, found, err := s.objectiveFor(ctx, actor, oid)
	if err != nil || !found {
		return err
	}

	err = s.store.DeleteObjective(ctx, oid)
	s.changed(ctx, "objective", "delete", realtime.Event{
		Type:   realtime.ObjectiveDeleted,
		ID:     ident.Normalize(oid),
		UserID: ownerOf(o),
	}, err)
	return err
}

// ObjectiveFilter narrows the objective listing. An unset employee means
// the caller's own objectives, or everyone's for managers.
type ObjectiveFilter struct {
	EmployeeID ident.ID
	Year       int
	Type       string
}

// Objectives lists objectives with their progress.
func (s *Service) Objectives(ctx context.Context, actor Actor, f ObjectiveFilter) ([]okr.ObjectiveView, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	var typ models.ObjectiveType
	if strings.TrimSpace(f.Type) != "" {
		t, ok := models.ParseObjectiveType(f.Type)
		if !ok {
			return nil, validation("type", "unknown type "+strconv.Quote(f.Type))
		}
		typ = t
	}

	employee := f.EmployeeID
	if !employee.IsSet() && !actor.IsManager() {
		employee = ident.ID(ident.Normalize(actor.EmployeeID))
	}
	if employee.IsSet() && !actor.IsManager() && !ident.Equal(employee, actor.EmployeeID) {
		return nil, ErrForbidden
	}

	var selected []models.Objective
	switch {
	case employee.IsSet() && f.Year > 0 && typ != "":
		selected = okr.ObjectivesFor(records, employee, f.Year, typ)
	default:
		for _, o := range records.Objectives {
			if employee.IsSet() && !ident.Equal(o.EmployeeID, employee) {
				continue
			}
			if f.Year > 0 && o.Year != f.Year {
				continue
			}
			if typ != "" && o.Type != typ {
				continue
			}
			selected = append(selected, o)
		}
	}

	views := make([]okr.ObjectiveView, 0, len(selected))
	for _, o := range selected {
		views = append(views, okr.ObjectiveProgress(records, o))
	}
	return views, nil
}

// CorporateObjectives lists Organization objectives of every year.
func (s *Service) CorporateObjectives(ctx context.Context) ([]okr.ObjectiveView, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	corporate := okr.CorporateObjectives(records)
	views := make([]okr.ObjectiveView, 0, len(corporate))
	for _, o := range corporate {
		views = append(views, okr.ObjectiveProgress(records, o))
	}
	return views, nil
}
