// Package okr derives filtered views and progress metrics from a snapshot of
// employees, objectives and tasks. Every function is pure: inputs are never
// mutated and results depend only on the snapshot passed in.
package okr

import (
	"sort"

	"okr-tracker-api/internal/ident"
	"okr-tracker-api/internal/models"
)

// ObjectivesFor returns the objectives owned by employeeID for the given year
// and type, in input order.
func ObjectivesFor(records models.Records, employeeID any, year int, typ models.ObjectiveType) []models.Objective {
	owner := ident.Normalize(employeeID)
	out := make([]models.Objective, 0)
	if owner == ident.Unset {
		return out
	}
	for _, o := range records.Objectives {
		if o.Type == typ && o.Year == year && ident.Normalize(o.EmployeeID) == owner {
			out = append(out, o)
		}
	}
	return out
}

// CorporateObjectives returns every Organization objective regardless of year.
func CorporateObjectives(records models.Records) []models.Objective {
	out := make([]models.Objective, 0)
	for _, o := range records.Objectives {
		if o.Type == models.TypeOrganization {
			out = append(out, o)
		}
	}
	return out
}

// OwnedObjectives returns every objective owned by employeeID, any year or type.
func OwnedObjectives(records models.Records, employeeID any) []models.Objective {
	owner := ident.Normalize(employeeID)
	out := make([]models.Objective, 0)
	if owner == ident.Unset {
		return out
	}
	for _, o := range records.Objectives {
		if ident.Normalize(o.EmployeeID) == owner {
			out = append(out, o)
		}
	}
	return out
}

// TasksFor returns the tasks linked to objectiveID, in input order.
func TasksFor(records models.Records, objectiveID any) []models.Task {
	return tasksFor(records.Tasks, objectiveID)
}

func tasksFor(tasks []models.Task, objectiveID any) []models.Task {
	target := ident.Normalize(objectiveID)
	out := make([]models.Task, 0)
	if target == ident.Unset {
		return out
	}
	for _, t := range tasks {
		if ident.Normalize(t.ObjectiveID) == target {
			out = append(out, t)
		}
	}
	return out
}

// FindObjective looks up an objective by id.
func FindObjective(records models.Records, id any) (models.Objective, bool) {
	target := ident.Normalize(id)
	if target == ident.Unset {
		return models.Objective{}, false
	}
	for _, o := range records.Objectives {
		if ident.Normalize(o.ID) == target {
			return o, true
		}
	}
	return models.Objective{}, false
}

// FindTask looks up a task by id.
func FindTask(records models.Records, id any) (models.Task, bool) {
	target := ident.Normalize(id)
	if target == ident.Unset {
		return models.Task{}, false
	}
	for _, t := range records.Tasks {
		if ident.Normalize(t.ID) == target {
			return t, true
		}
	}
	return models.Task{}, false
}

// FindEmployee looks up an employee by id.
func FindEmployee(records models.Records, id any) (models.Employee, bool) {
	target := ident.Normalize(id)
	if target == ident.Unset {
		return models.Employee{}, false
	}
	for _, e := range records.Employees {
		if ident.Normalize(e.ID) == target {
			return e, true
		}
	}
	return models.Employee{}, false
}

// YearsFor returns the distinct years of employeeID's objectives, newest first.
func YearsFor(records models.Records, employeeID any) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, o := range OwnedObjectives(records, employeeID) {
		if _, ok := seen[o.Year]; ok {
			continue
		}
		seen[o.Year] = struct{}{}
		years = append(years, o.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
