// Package importer loads employees, areas, objectives and tasks from an
// .xlsx workbook with one sheet per table.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/ident"
	"okr-tracker-api/internal/metrics"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/okr"
	"okr-tracker-api/internal/store"

	"github.com/xuri/excelize/v2"
)

const (
	sheetAreas      = "areas"
	sheetEmployees  = "employees"
	sheetObjectives = "objectives"
	sheetTasks      = "tasks"
)

// Target is the part of the store the importer writes to.
type Target interface {
	Snapshot(ctx context.Context) (models.Records, error)
	InsertEmployee(ctx context.Context, e *models.Employee) error
	InsertArea(ctx context.Context, a *models.Area) error
	InsertObjective(ctx context.Context, o *models.Objective) error
	InsertTask(ctx context.Context, t *models.Task) error
}

// sequencer is implemented by stores whose id generators must be told about
// explicitly inserted ids.
type sequencer interface {
	ResyncSequences(ctx context.Context) error
}

type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Sheet, e.Row, e.Message)
}

// Report summarizes an import. Rows that already exist are skipped; rows
// that cannot be parsed are listed in Errors.
type Report struct {
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Errors   []RowError     `json:"errors"`
}

func newReport() *Report {
	return &Report{Imported: map[string]int{}, Skipped: map[string]int{}, Errors: []RowError{}}
}

// Total is the number of rows written.
func (r *Report) Total() int {
	n := 0
	for _, v := range r.Imported {
		n += v
	}
	return n
}

// legacyValues maps the status and type spellings of the old spreadsheets.
var legacyValues = map[string]string{
	"organizacion": string(models.TypeOrganization),
	"organización": string(models.TypeOrganization),
	"empleado":     string(models.TypeEmployee),
	"nuevo":        string(models.ObjectiveNew),
	"en curso":     string(models.ObjectiveInProgress),
	"completo":     string(models.ObjectiveComplete),
	"incompleto":   string(models.ObjectiveIncomplete),
	"pendiente":    string(models.TaskPending),
	"haciendo":     string(models.TaskDoing),
	"hecho":        string(models.TaskDone),
}

func translate(v string) string {
	if t, ok := legacyValues[strings.ToLower(strings.TrimSpace(v))]; ok {
		return t
	}
	return v
}

type run struct {
	target  Target
	records models.Records
	report  *Report
}

// ImportWorkbook reads the workbook and inserts every valid row. Sheets are
// processed in dependency order: areas, employees, objectives, tasks.
// Missing sheets are skipped.
func ImportWorkbook(ctx context.Context, r io.Reader, target Target) (*Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := target.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	im := &run{target: target, records: records, report: newReport()}

	steps := []struct {
		sheet string
		row   func(context.Context, *table, []string) error
	}{
		{sheetAreas, im.area},
		{sheetEmployees, im.employee},
		{sheetObjectives, im.objective},
		{sheetTasks, im.task},
	}
	for _, step := range steps {
		t, err := readTable(f, step.sheet)
		if err != nil {
			return nil, fmt.Errorf("read %s sheet: %w", step.sheet, err)
		}
		if t == nil {
			continue
		}
		for i, row := range t.rows {
			if blank(row) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return im.report, err
			}
			err := step.row(ctx, t, row)
			im.record(step.sheet, i+2, err)
			if err != nil && !isRowError(err) {
				return im.report, err
			}
		}
	}

	if seq, ok := target.(sequencer); ok {
		if err := seq.ResyncSequences(ctx); err != nil {
			return im.report, err
		}
	}
	return im.report, nil
}

// errSkip marks a row that already exists.
var errSkip = errors.New("already exists")

type rowError struct{ msg string }

func (e *rowError) Error() string { return e.msg }

func bad(format string, args ...any) error {
	return &rowError{msg: fmt.Sprintf(format, args...)}
}

func isRowError(err error) bool {
	var re *rowError
	return errors.Is(err, errSkip) || errors.As(err, &re)
}

func (r *run) record(sheet string, row int, err error) {
	switch {
	case err == nil:
		r.report.Imported[sheet]++
		metrics.ObserveImportedRow(sheet, true)
	case errors.Is(err, errSkip):
		r.report.Skipped[sheet]++
		metrics.ObserveImportedRow(sheet, false)
	default:
		var re *rowError
		if errors.As(err, &re) {
			r.report.Errors = append(r.report.Errors, RowError{Sheet: sheet, Row: row, Message: re.msg})
			metrics.ObserveImportedRow(sheet, false)
		}
	}
}

// rowID returns the row's numeric id, or the next free one when the cell is
// empty.
func rowID(t *table, row []string, existing []any) (int64, error) {
	raw := t.cell(row, "id")
	if !ident.IsSet(raw) {
		return okr.NextSequentialID(existing), nil
	}
	id, err := ident.Int64(raw)
	if err != nil {
		return 0, bad("id %q is not numeric", raw)
	}
	return id, nil
}

func optionalID(t *table, row []string, column string) (*int64, error) {
	raw := t.cell(row, column)
	if !ident.IsSet(raw) {
		return nil, nil
	}
	id, err := ident.Int64(raw)
	if err != nil {
		return nil, bad("%s %q is not numeric", column, raw)
	}
	return &id, nil
}

func insertErr(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return errSkip
	}
	return err
}

func (r *run) area(ctx context.Context, t *table, row []string) error {
	ids := make([]any, 0, len(r.records.Areas))
	for _, a := range r.records.Areas {
		ids = append(ids, a.ID)
		if strings.EqualFold(a.Name, t.cell(row, "name")) {
			return errSkip
		}
	}
	id, err := rowID(t, row, ids)
	if err != nil {
		return err
	}
	a := models.Area{ID: id, Name: t.cell(row, "name")}
	if a.Name == "" {
		return bad("name is required")
	}
	if err := r.target.InsertArea(ctx, &a); err != nil {
		return insertErr(err)
	}
	r.records.Areas = append(r.records.Areas, a)
	return nil
}

func (r *run) employee(ctx context.Context, t *table, row []string) error {
	ids := make([]any, 0, len(r.records.Employees))
	for _, e := range r.records.Employees {
		ids = append(ids, e.ID)
	}
	id, err := rowID(t, row, ids)
	if err != nil {
		return err
	}
	if _, exists := okr.FindEmployee(r.records, id); exists {
		return errSkip
	}

	e := models.Employee{
		ID:    id,
		Name:  t.cell(row, "name"),
		Email: t.cell(row, "email"),
		Area:  t.cell(row, "area"),
		Role:  models.RoleEmployee,
	}
	if e.Name == "" || e.Email == "" {
		return bad("name and email are required")
	}
	if raw := t.cell(row, "role"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			return bad("unknown role %q", raw)
		}
		e.Role = role
	}

	password := t.cell(row, "password")
	switch {
	case password == "":
		return bad("password is required")
	case isBcryptHash(password):
		e.PasswordHash = password
	default:
		if e.PasswordHash, err = auth.HashPassword(password); err != nil {
			return err
		}
	}

	if err := r.target.InsertEmployee(ctx, &e); err != nil {
		return insertErr(err)
	}
	r.records.Employees = append(r.records.Employees, e)
	return nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

func (r *run) objective(ctx context.Context, t *table, row []string) error {
	ids := make([]any, 0, len(r.records.Objectives))
	for _, o := range r.records.Objectives {
		ids = append(ids, o.ID)
	}
	id, err := rowID(t, row, ids)
	if err != nil {
		return err
	}
	if _, exists := okr.FindObjective(r.records, id); exists {
		return errSkip
	}

	o := models.Objective{
		ID:          id,
		Name:        t.cell(row, "name"),
		Description: t.cell(row, "description"),
		Status:      models.ObjectiveNew,
	}
	if o.Name == "" {
		return bad("name is required")
	}

	typ, ok := models.ParseObjectiveType(translate(t.cell(row, "type")))
	if !ok {
		return bad("unknown type %q", t.cell(row, "type"))
	}
	o.Type = typ

	if raw := t.cell(row, "status"); raw != "" {
		status, ok := models.ParseObjectiveStatus(translate(raw))
		if !ok {
			return bad("unknown status %q", raw)
		}
		o.Status = status
	}

	year, err := strconv.Atoi(ident.Normalize(t.cell(row, "year")))
	if err != nil || year <= 0 {
		return bad("year %q is not a valid year", t.cell(row, "year"))
	}
	o.Year = year

	if o.EmployeeID, err = optionalID(t, row, "employee_id"); err != nil {
		return err
	}
	if o.ParentID, err = optionalID(t, row, "parent_id"); err != nil {
		return err
	}
	if o.Type == models.TypeOrganization {
		o.EmployeeID, o.ParentID = nil, nil
	}

	if err := r.target.InsertObjective(ctx, &o); err != nil {
		return insertErr(err)
	}
	r.records.Objectives = append(r.records.Objectives, o)
	return nil
}

func (r *run) task(ctx context.Context, t *table, row []string) error {
	task := models.Task{
		ID:     ident.Normalize(t.cell(row, "id")),
		Name:   t.cell(row, "name"),
		Status: models.TaskPending,
	}
	if task.Name == "" {
		return bad("name is required")
	}
	if raw := t.cell(row, "status"); raw != "" {
		status, ok := models.ParseTaskStatus(translate(raw))
		if !ok {
			return bad("unknown status %q", raw)
		}
		task.Status = status
	}

	objectiveID, err := optionalID(t, row, "objective_id")
	if err != nil {
		return err
	}
	if objectiveID == nil {
		return bad("objective_id is required")
	}
	task.ObjectiveID = *objectiveID

	owner, err := optionalID(t, row, "employee_id")
	if err != nil {
		return err
	}
	switch {
	case owner != nil:
		task.EmployeeID = *owner
	default:
		if o, ok := okr.FindObjective(r.records, task.ObjectiveID); ok && o.EmployeeID != nil {
			task.EmployeeID = *o.EmployeeID
		}
	}

	// Legacy sheets number tasks by row count, so an id may be shared by
	// different tasks. A taken id is only a duplicate when a task with the
	// same name already sits under the same objective; otherwise the row
	// gets a fresh id.
	if task.ID != ident.Unset {
		if _, taken := okr.FindTask(r.records, task.ID); taken {
			for _, existing := range okr.TasksFor(r.records, task.ObjectiveID) {
				if existing.Name == task.Name {
					return errSkip
				}
			}
			task.ID = ""
		}
	}

	if err := r.target.InsertTask(ctx, &task); err != nil {
		return insertErr(err)
	}
	r.records.Tasks = append(r.records.Tasks, task)
	return nil
}
