package models

import "time"

// Employee represents a person who can log in and own objectives
type Employee struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"not null;default:'employee'"`
	Area         string    `json:"area"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Employee Model
func (Employee) TableName() string {
	return "employees"
}

// IsManager reports whether the employee has the manager role
func (e Employee) IsManager() bool {
	return e.Role == RoleManager
}

// Area represents an organizational unit. Employees reference areas by name.
type Area struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Area Model
func (Area) TableName() string {
	return "areas"
}
