package service

import (
	"context"
	"slices"

	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/okr"
)

// Dashboard is the personal progress view. Employees may only see their
// own; a zero year means the current one.
func (s *Service) Dashboard(ctx context.Context, actor Actor, employeeID int64, year int) (okr.Dashboard, error) {
	if employeeID == 0 {
		employeeID = actor.EmployeeID
	}
	if !actor.IsManager() && employeeID != actor.EmployeeID {
		return okr.Dashboard{}, ErrForbidden
	}
	if year == 0 {
		year = s.currentYear()
	}
	records, err := s.Records(ctx)
	if err != nil {
		return okr.Dashboard{}, err
	}
	return okr.EmployeeDashboard(records, employeeID, year), nil
}

// Team lists every employee's progress for the year. Managers only.
func (s *Service) Team(ctx context.Context, actor Actor, year int, area string) ([]okr.TeamMember, error) {
	if !actor.IsManager() {
		return nil, ErrForbidden
	}
	if year == 0 {
		year = s.currentYear()
	}
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return okr.TeamProgress(records, year, area), nil
}

// EmployeeDetail is the manager's drill-down into one employee.
type EmployeeDetail struct {
	Employee  models.Employee `json:"employee"`
	Dashboard okr.Dashboard   `json:"dashboard"`
	Years     []int           `json:"years"`
}

func (s *Service) EmployeeDetail(ctx context.Context, actor Actor, employeeID any, year int) (EmployeeDetail, error) {
	if !actor.IsManager() {
		return EmployeeDetail{}, ErrForbidden
	}
	records, err := s.Records(ctx)
	if err != nil {
		return EmployeeDetail{}, err
	}
	e, ok := okr.FindEmployee(records, employeeID)
	if !ok {
		return EmployeeDetail{}, notFound("employee", employeeID)
	}
	if year == 0 {
		year = s.currentYear()
	}
	return EmployeeDetail{
		Employee:  e,
		Dashboard: okr.EmployeeDashboard(records, e.ID, year),
		Years:     s.yearsFor(records, e.ID),
	}, nil
}

// Years lists the years that have objectives for the employee, newest first,
// always including the current year.
func (s *Service) Years(ctx context.Context, actor Actor, employeeID int64) ([]int, error) {
	if employeeID == 0 {
		employeeID = actor.EmployeeID
	}
	if !actor.IsManager() && employeeID != actor.EmployeeID {
		return nil, ErrForbidden
	}
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return s.yearsFor(records, employeeID), nil
}

func (s *Service) yearsFor(records models.Records, employeeID int64) []int {
	years := okr.YearsFor(records, employeeID)
	current := s.currentYear()
	if !slices.Contains(years, current) {
		years = append(years, current)
		slices.SortFunc(years, func(a, b int) int { return b - a })
	}
	return years
}
