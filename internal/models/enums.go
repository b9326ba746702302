package models

import "strings"

// Role represents the access tier of an employee
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

// ParseRole accepts a role name case-insensitively
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// ObjectiveType distinguishes corporate objectives from personal ones
type ObjectiveType string

const (
	TypeOrganization ObjectiveType = "Organization"
	TypeEmployee     ObjectiveType = "Employee"
)

// Valid reports whether t is a known objective type
func (t ObjectiveType) Valid() bool {
	return t == TypeOrganization || t == TypeEmployee
}

// ParseObjectiveType accepts a type name case-insensitively
func ParseObjectiveType(s string) (ObjectiveType, bool) {
	switch canonical(s) {
	case "organization":
		return TypeOrganization, true
	case "employee":
		return TypeEmployee, true
	}
	return ObjectiveType(s), false
}

// ObjectiveStatus represents the status of an objective
type ObjectiveStatus string

const (
	ObjectiveNew        ObjectiveStatus = "New"
	ObjectiveInProgress ObjectiveStatus = "InProgress"
	ObjectiveComplete   ObjectiveStatus = "Complete"
	ObjectiveIncomplete ObjectiveStatus = "Incomplete"
)

// ObjectiveStatuses lists every objective status in display order
var ObjectiveStatuses = []ObjectiveStatus{ObjectiveNew, ObjectiveInProgress, ObjectiveComplete, ObjectiveIncomplete}

// Valid reports whether s is a known objective status
func (s ObjectiveStatus) Valid() bool {
	for _, v := range ObjectiveStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseObjectiveStatus accepts a status name case-insensitively, ignoring
// spaces, dashes and underscores ("in progress", "in_progress")
func ParseObjectiveStatus(s string) (ObjectiveStatus, bool) {
	c := canonical(s)
	for _, v := range ObjectiveStatuses {
		if canonical(string(v)) == c {
			return v, true
		}
	}
	return ObjectiveStatus(s), false
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskPending TaskStatus = "Pending"
	TaskDoing   TaskStatus = "Doing"
	TaskDone    TaskStatus = "Done"
)

// TaskStatuses lists every task status in display order
var TaskStatuses = []TaskStatus{TaskPending, TaskDoing, TaskDone}

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	return s == TaskPending || s == TaskDoing || s == TaskDone
}

// ParseTaskStatus accepts a status name case-insensitively
func ParseTaskStatus(s string) (TaskStatus, bool) {
	c := canonical(s)
	for _, v := range TaskStatuses {
		if canonical(string(v)) == c {
			return v, true
		}
	}
	return TaskStatus(s), false
}

func canonical(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}
