package user

import (
	"context"
)

type UserRepository interface {
	// Create stores a new user and assigns the next employee identifier
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (User, error)

	// ListByRole returns users of the role ordered by name
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
