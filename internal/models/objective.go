package models

import "time"

// Objective represents an OKR, either organization-wide or owned by one employee
type Objective struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Type        ObjectiveType   `json:"type" gorm:"not null;index"`
	EmployeeID  *int64          `json:"employeeId" gorm:"column:employee_id;index"`
	ParentID    *int64          `json:"parentId" gorm:"column:parent_id"`
	Year        int             `json:"year" gorm:"not null;index"`
	Status      ObjectiveStatus `json:"status" gorm:"not null;default:'New'"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Objective Model
func (Objective) TableName() string {
	return "objectives"
}

// Task represents a unit of work under one objective
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Status      TaskStatus `json:"status" gorm:"not null;default:'Pending'"`
	ObjectiveID int64      `json:"objectiveId" gorm:"column:objective_id;index"`
	EmployeeID  int64      `json:"employeeId" gorm:"column:employee_id;index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// Records is a read-only snapshot of the four tables
type Records struct {
	Employees  []Employee  `json:"employees"`
	Areas      []Area      `json:"areas"`
	Objectives []Objective `json:"objectives"`
	Tasks      []Task      `json:"tasks"`
}

// All returns every model for migrations
func All() []any {
	return []any{&Employee{}, &Area{}, &Objective{}, &Task{}}
}
