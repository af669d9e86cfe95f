package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the record store. Range bounds compare calendar
// dates, both inclusive. Listing methods join the owning user's identity.
type AttendanceRepository interface {
	// GetByUserAndDate returns nil, nil when the user has no record for the day
	GetByUserAndDate(ctx context.Context, userID string, day time.Time) (*Attendance, error)

	// Create inserts a new record. A second record for the same (user, day)
	// fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update persists check-in/check-out fields of an existing record
	Update(ctx context.Context, attendance Attendance) error

	// ListByUser returns a user's records in [start, end], newest first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, start, end time.Time, limit int) ([]Attendance, error)

	// ListByDate returns every record for one day
	ListByDate(ctx context.Context, day time.Time) ([]Attendance, error)

	// ListByRange returns every record in [start, end]
	ListByRange(ctx context.Context, start, end time.Time) ([]Attendance, error)

	// List applies the manager filters, newest first
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
}
