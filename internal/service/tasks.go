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

type TaskInput struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Tasks lists the tasks of an objective. Employees see tasks of their own
// objectives and of corporate ones.
func (s *Service) Tasks(ctx context.Context, actor Actor, objectiveID any) ([]models.Task, error) {
	oid, err := parseObjectiveID(objectiveID)
	if err != nil {
		return nil, err
	}
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	o, ok := okr.FindObjective(records, oid)
	if !ok {
		return nil, notFound("objective", oid)
	}
	if !actor.IsManager() && !ownedBy(o, actor.EmployeeID) && o.Type != models.TypeOrganization {
		return nil, ErrForbidden
	}
	return okr.TasksFor(records, oid), nil
}

// CreateTask adds a task under an objective the actor may modify. The task
// belongs to the objective's owner, or to the actor for corporate ones.
func (s *Service) CreateTask(ctx context.Context, actor Actor, objectiveID any, in TaskInput) (models.Task, error) {
	oid, err := ident.Int64(objectiveID)
	if err != nil {
		return models.Task{}, validation("objectiveId", "must be a numeric identifier")
	}

	status := models.TaskPending
	if strings.TrimSpace(in.Status) != "" {
		status, _ = models.ParseTaskStatus(in.Status)
	}

	records, err := s.Records(ctx)
	if err != nil {
		return models.Task{}, err
	}
	draft := okr.TaskDraft{Name: strings.TrimSpace(in.Name), Status: status, ObjectiveID: oid}
	if err := okr.ValidateTask(records, draft); err != nil {
		return models.Task{}, err
	}

	o, _ := okr.FindObjective(records, oid)
	if !actor.IsManager() && !ownedBy(o, actor.EmployeeID) {
		return models.Task{}, ErrForbidden
	}
	owner := actor.EmployeeID
	if o.EmployeeID != nil {
		owner = *o.EmployeeID
	}

	t := models.Task{Name: draft.Name, Status: draft.Status, ObjectiveID: oid, EmployeeID: owner}
	err = s.store.InsertTask(ctx, &t)
	s.changed(ctx, "task", "create", realtime.Event{Type: realtime.TaskCreated, ID: t.ID, UserID: owner}, err)
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// taskFor resolves a task the actor may modify: their own, or one under an
// objective they own.
func (s *Service) taskFor(ctx context.Context, actor Actor, id string) (models.Task, bool, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return models.Task{}, false, err
	}
	t, ok := okr.FindTask(records, id)
	if !ok {
		return models.Task{}, false, nil
	}
	if actor.IsManager() || t.EmployeeID == actor.EmployeeID {
		return t, true, nil
	}
	if o, ok := okr.FindObjective(records, t.ObjectiveID); ok && ownedBy(o, actor.EmployeeID) {
		return t, true, nil
	}
	return models.Task{}, true, ErrForbidden
}

func (s *Service) UpdateTaskStatus(ctx context.Context, actor Actor, id any, rawStatus string) error {
	tid := ident.Normalize(id)
	if tid == ident.Unset {
		return validation("id", "is required")
	}
	status, ok := models.ParseTaskStatus(rawStatus)
	if !ok {
		return validation("status", "unknown status "+strconv.Quote(rawStatus))
	}

	t, found, err := s.taskFor(ctx, actor, tid)
	if err != nil {
		return err
	}
	if !found {
		return notFound("task", tid)
	}

	err = s.store.UpdateTaskStatus(ctx, tid, status)
	s.changed(ctx, "task", "update", realtime.Event{Type: realtime.TaskUpdated, ID: tid, UserID: t.EmployeeID}, err)
	return err
}

// DeleteTask removes the task; unknown ids succeed.
func (s *Service) DeleteTask(ctx context.Context, actor Actor, id any) error {
	tid := ident.Normalize(id)
	if tid == ident.Unset {
		return nil
	}
	t, found, err := s.taskFor(ctx, actor, tid)
	if err != nil || !found {
		return err
	}

	err = s.store.DeleteTask(ctx, tid)
	s.changed(ctx, "task", "delete", realtime.Event{Type: realtime.TaskDeleted, ID: tid, UserID: t.EmployeeID}, err)
	return err
}
