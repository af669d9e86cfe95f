package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceJoinedSelect = `
	SELECT a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.status, a.total_hours,
		   a.created_at, a.updated_at,
		   u.name, u.email, u.employee_id, u.department
	FROM attendances a
	LEFT JOIN users u ON u.id = a.user_id
`

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns the Postgres record store. Calendar dates are
// exchanged as YYYY-MM-DD and read back as midnight in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, loc: loc}
}

func (a *attendanceRepository) dateParam(t time.Time) string {
	return calendar.FormatDate(t.In(a.loc))
}

// fromDBDate rebuilds the local day key from a DATE value, which pgx returns as UTC midnight.
func (a *attendanceRepository) fromDBDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, a.loc)
}

func (a *attendanceRepository) scanJoined(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var day time.Time
	err := row.Scan(
		&att.ID, &att.UserID, &day, &att.CheckInTime, &att.CheckOutTime, &att.Status, &att.TotalHours,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.EmployeeEmail, &att.EmployeeCode, &att.EmployeeDepartment,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.Date = a.fromDBDate(day)
	return att, nil
}

func (a *attendanceRepository) queryJoined(ctx context.Context, op string, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to %s: %w", database.ErrStoreUnavailable, op, err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := a.scanJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan attendance: %w", database.ErrStoreUnavailable, err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to %s: %w", database.ErrStoreUnavailable, op, err)
	}

	return records, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, day time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := attendanceJoinedSelect + `
		WHERE a.user_id = $1
		  AND a.date = $2::date
		LIMIT 1
	`

	att, err := a.scanJoined(q.QueryRow(ctx, query, userID, a.dateParam(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get attendance by user and date: %w", database.ErrStoreUnavailable, err)
	}

	return &att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		newAttendance.ID = id.String()
	}

	query := `
		INSERT INTO attendances (id, user_id, date, check_in_time, check_out_time, status, total_hours)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.UserID,
		a.dateParam(newAttendance.Date),
		newAttendance.CheckInTime,
		newAttendance.CheckOutTime,
		newAttendance.Status,
		newAttendance.TotalHours,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err, "attendances_user_date_key") {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("%w: failed to create attendance: %w", database.ErrStoreUnavailable, err)
	}

	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository. A record that was
// checked out concurrently is not overwritten and yields ErrAlreadyCheckedOut.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_time = $2,
			check_out_time = $3,
			status = $4,
			total_hours = $5,
			updated_at = NOW()
		WHERE id = $1
		  AND check_out_time IS NULL
	`

	tag, err := q.Exec(ctx, query, att.ID, att.CheckInTime, att.CheckOutTime, att.Status, att.TotalHours)
	if err != nil {
		return fmt.Errorf("%w: failed to update attendance: %w", database.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedOut
	}

	return nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, start, end time.Time, limit int) ([]attendance.Attendance, error) {
	query := attendanceJoinedSelect + `
		WHERE a.user_id = $1
		  AND a.date BETWEEN $2::date AND $3::date
		ORDER BY a.date DESC
	`
	args := []interface{}{userID, a.dateParam(start), a.dateParam(end)}

	if limit > 0 {
		query += " LIMIT $4"
		args = append(args, limit)
	}

	return a.queryJoined(ctx, "list attendance by user", query, args...)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	query := attendanceJoinedSelect + `
		WHERE a.date = $1::date
		ORDER BY a.check_in_time NULLS LAST
	`
	return a.queryJoined(ctx, "list attendance by date", query, a.dateParam(day))
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	query := attendanceJoinedSelect + `
		WHERE a.date BETWEEN $1::date AND $2::date
		ORDER BY a.date, a.check_in_time NULLS LAST
	`
	return a.queryJoined(ctx, "list attendance by range", query, a.dateParam(start), a.dateParam(end))
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d::date", argIdx))
		args = append(args, a.dateParam(*filter.StartDate))
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d::date", argIdx))
		args = append(args, a.dateParam(*filter.EndDate))
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("u.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("u.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}

	query := attendanceJoinedSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.date DESC, u.name"

	return a.queryJoined(ctx, "list attendance", query, args...)
}
