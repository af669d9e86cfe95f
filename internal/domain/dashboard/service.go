package dashboard

import "context"

type DashboardService interface {
	// GetEmployeeDashboard composes today, month-to-date and the last 7 days for one user
	GetEmployeeDashboard(ctx context.Context, userID string) (EmployeeDashboardResponse, error)

	// GetManagerDashboard composes the team overview, weekly trend and department presence
	GetManagerDashboard(ctx context.Context) (ManagerDashboardResponse, error)

	// Invalidate drops cached snapshots after a record changes
	Invalidate(ctx context.Context) error
}
