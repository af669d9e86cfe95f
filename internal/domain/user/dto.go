package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	EmployeeID string    `json:"employeeId"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EmployeeSummary is the identity slice echoed in team views
type EmployeeSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		EmployeeID: u.EmployeeID,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}

func ToSummary(u User) EmployeeSummary {
	return EmployeeSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		Department: u.Department,
	}
}
