package user

import "time"

type Role string

const (
	RoleManager  Role = "manager"  // Can view team attendance and reports
	RoleEmployee Role = "employee" // Checks in and out
)

func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleEmployee
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	EmployeeID   string // human-readable code, immutable once assigned
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManager checks if user has manager scope
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
