package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// AttendanceService defines the attendance lifecycle and period summaries
type AttendanceService interface {
	// CheckIn creates today's record for the user
	CheckIn(ctx context.Context, userID string) (AttendanceResponse, error)

	// CheckOut closes today's record for the user
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// GetToday returns today's record and its check-in/out flags
	GetToday(ctx context.Context, userID string) (TodayResponse, error)

	// GetMyHistory returns the user's records, optionally for one month
	GetMyHistory(ctx context.Context, userID string, query PeriodQuery) (ListAttendanceResponse, error)

	// GetMySummary returns the personal monthly summary with inferred absences
	GetMySummary(ctx context.Context, userID string, query PeriodQuery) (MySummaryResponse, error)

	// ListAll returns team records matching the filters (manager)
	ListAll(ctx context.Context, query RangeQuery) (ListAttendanceResponse, error)

	// GetEmployeeAttendance returns one employee's records (manager)
	GetEmployeeAttendance(ctx context.Context, userID string, query PeriodQuery) (EmployeeAttendanceResponse, error)

	// GetTeamSummary returns literal status counts and department breakdown (manager)
	GetTeamSummary(ctx context.Context, query PeriodQuery) (TeamSummaryResponse, error)

	// GetTodayStatus returns who is in and who is missing today (manager)
	GetTodayStatus(ctx context.Context) (TodayStatusResponse, error)

	// ListEmployees returns the employee roster ordered by name (manager)
	ListEmployees(ctx context.Context) ([]user.EmployeeSummary, error)
}
