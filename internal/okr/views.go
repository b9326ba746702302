package okr

import (
	"strings"

	"okr-tracker-api/internal/ident"
	"okr-tracker-api/internal/models"
)

// UnknownParent is shown when an Employee objective links to a corporate
// objective that no longer exists.
const UnknownParent = "unknown"

// AreaUnassigned labels employees without an area.
const AreaUnassigned = "Unassigned"

// ObjectiveView is an objective with its derived progress.
type ObjectiveView struct {
	Objective  models.Objective `json:"objective"`
	ParentName string           `json:"parentName,omitempty"`
	Completion float64          `json:"completion"`
	Percent    int              `json:"percent"`
	Tasks      []models.Task    `json:"tasks"`
}

// ParentName resolves the corporate objective an Employee objective links to.
// Organization objectives have no parent and yield "".
func ParentName(records models.Records, o models.Objective) string {
	if o.Type != models.TypeEmployee {
		return ""
	}
	if o.ParentID == nil {
		return UnknownParent
	}
	parent, ok := FindObjective(records, o.ParentID)
	if !ok || parent.Type != models.TypeOrganization {
		return UnknownParent
	}
	return parent.Name
}

// ObjectiveProgress derives the view of a single objective.
func ObjectiveProgress(records models.Records, o models.Objective) ObjectiveView {
	tasks := TasksFor(records, o.ID)
	completion := TaskCompletion(tasks)
	return ObjectiveView{
		Objective:  o,
		ParentName: ParentName(records, o),
		Completion: completion,
		Percent:    Percent(completion),
		Tasks:      tasks,
	}
}

// Dashboard is the progress of one employee for one year.
type Dashboard struct {
	EmployeeID int64           `json:"employeeId"`
	Year       int             `json:"year"`
	Completion float64         `json:"completion"`
	Percent    int             `json:"percent"`
	Objectives []ObjectiveView `json:"objectives"`
}

// EmployeeDashboard computes per-objective and overall progress for the
// Employee objectives employeeID owns in year.
func EmployeeDashboard(records models.Records, employeeID int64, year int) Dashboard {
	objectives := ObjectivesFor(records, employeeID, year, models.TypeEmployee)
	views := make([]ObjectiveView, 0, len(objectives))
	for _, o := range objectives {
		views = append(views, ObjectiveProgress(records, o))
	}
	completion := EmployeeCompletion(objectives, records.Tasks)
	return Dashboard{
		EmployeeID: employeeID,
		Year:       year,
		Completion: completion,
		Percent:    Percent(completion),
		Objectives: views,
	}
}

// TeamMember is one row of the manager's team overview.
type TeamMember struct {
	EmployeeID int64       `json:"employeeId"`
	Name       string      `json:"name"`
	Role       models.Role `json:"role"`
	Area       string      `json:"area"`
	Objectives int         `json:"objectives"`
	Completion float64     `json:"completion"`
	Percent    int         `json:"percent"`
}

// TeamProgress summarizes every employee's objectives for year. A non-empty
// area keeps only employees of that area.
func TeamProgress(records models.Records, year int, area string) []TeamMember {
	area = strings.TrimSpace(area)
	out := make([]TeamMember, 0, len(records.Employees))
	for _, e := range records.Employees {
		if area != "" && !strings.EqualFold(strings.TrimSpace(e.Area), area) {
			continue
		}
		objectives := make([]models.Objective, 0)
		for _, o := range records.Objectives {
			if o.Year == year && ident.Equal(o.EmployeeID, e.ID) {
				objectives = append(objectives, o)
			}
		}
		completion := EmployeeCompletion(objectives, records.Tasks)
		label := strings.TrimSpace(e.Area)
		if label == "" {
			label = AreaUnassigned
		}
		out = append(out, TeamMember{
			EmployeeID: e.ID,
			Name:       e.Name,
			Role:       e.Role,
			Area:       label,
			Objectives: len(objectives),
			Completion: completion,
			Percent:    Percent(completion),
		})
	}
	return out
}
