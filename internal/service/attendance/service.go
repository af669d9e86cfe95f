package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HistoryLimit caps my-history when no month is selected
const HistoryLimit = 100

// Config holds attendance service configuration
type Config struct {
	Location *time.Location   // default: time.Local
	Now      func() time.Time // default: time.Now
}

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	user.UserRepository
	publisher attendance.EventPublisher
	loc       *time.Location
	now       func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	publisher attendance.EventPublisher,
	cfg Config,
) attendance.AttendanceService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if publisher == nil {
		publisher = attendance.Publishers{}
	}

	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		publisher:            publisher,
		loc:                  cfg.Location,
		now:                  cfg.Now,
	}
}

func (s *AttendanceServiceImpl) clock() time.Time {
	return s.now().In(s.loc)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.clock()
	day := calendar.StartOfDay(now)

	var record attendance.Attendance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, day)
		if err != nil {
			return err
		}

		if existing.IsCheckedIn() {
			return attendance.ErrAlreadyCheckedIn
		}

		if existing == nil {
			record = attendance.Attendance{UserID: userID, Date: day, CheckInTime: &now}
			record.DetermineStatus(s.loc)

			record, err = s.AttendanceRepository.Create(ctx, record)
			return err
		}

		record = *existing
		record.CheckInTime = &now
		record.DetermineStatus(s.loc)
		return s.AttendanceRepository.Update(ctx, record)
	})
	if err != nil {
		s.logFailure("check in", userID, err)
		return attendance.AttendanceResponse{}, err
	}

	resp := attendance.ToResponse(record)
	s.publish(ctx, attendance.EventCheckIn, resp)
	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.clock()
	day := calendar.StartOfDay(now)

	var record attendance.Attendance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, day)
		if err != nil {
			return err
		}

		if !existing.IsCheckedIn() {
			return attendance.ErrNotCheckedIn
		}
		if existing.IsCheckedOut() {
			return attendance.ErrAlreadyCheckedOut
		}

		checkOut := now
		if checkOut.Before(*existing.CheckInTime) {
			checkOut = *existing.CheckInTime
		}

		// Status stays as determined at check-in
		record = *existing
		record.CheckOutTime = &checkOut
		record.CalculateTotalHours()
		record.UpdatedAt = now

		return s.AttendanceRepository.Update(ctx, record)
	})
	if err != nil {
		s.logFailure("check out", userID, err)
		return attendance.AttendanceResponse{}, err
	}

	resp := attendance.ToResponse(record)
	s.publish(ctx, attendance.EventCheckOut, resp)
	return resp, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	day := calendar.StartOfDay(s.clock())

	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, day)
	if err != nil {
		s.logFailure("get today", userID, err)
		return attendance.TodayResponse{}, err
	}

	resp := attendance.TodayResponse{
		IsCheckedIn:  record.IsCheckedIn(),
		IsCheckedOut: record.IsCheckedOut(),
	}
	if record != nil {
		r := attendance.ToResponse(*record)
		resp.Attendance = &r
	}
	return resp, nil
}

// GetMyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyHistory(ctx context.Context, userID string, query attendance.PeriodQuery) (attendance.ListAttendanceResponse, error) {
	now := s.clock()
	period, err := query.Resolve(now)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	start, end := s.historyRange(period, now)
	records, err := s.AttendanceRepository.ListByUser(ctx, userID, start, end, HistoryLimit)
	if err != nil {
		s.logFailure("get history", userID, err)
		return attendance.ListAttendanceResponse{}, err
	}

	return attendance.ListAttendanceResponse{
		Count:      len(records),
		Attendance: attendance.ToResponses(records),
	}, nil
}

// historyRange is the selected month, or everything up to today when no month was selected.
func (s *AttendanceServiceImpl) historyRange(period attendance.Period, now time.Time) (time.Time, time.Time) {
	if period.Set {
		return calendar.MonthRange(period.Year, int(period.Month), s.loc)
	}
	return time.Date(1970, time.January, 1, 0, 0, 0, 0, s.loc), calendar.EndOfDay(now)
}

// GetMySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMySummary(ctx context.Context, userID string, query attendance.PeriodQuery) (attendance.MySummaryResponse, error) {
	now := s.clock()
	period, err := query.Resolve(now)
	if err != nil {
		return attendance.MySummaryResponse{}, err
	}

	start, end := calendar.MonthRange(period.Year, int(period.Month), s.loc)
	workingDays := calendar.CountWorkingDays(start, calendar.MinTime(end, now))

	records, err := s.AttendanceRepository.ListByUser(ctx, userID, start, end, 0)
	if err != nil {
		s.logFailure("get summary", userID, err)
		return attendance.MySummaryResponse{}, err
	}

	return attendance.MySummaryResponse{
		Month:       int(period.Month),
		Year:        period.Year,
		WorkingDays: workingDays,
		Summary:     SummarizePersonal(records, workingDays),
	}, nil
}

// ListAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAll(ctx context.Context, query attendance.RangeQuery) (attendance.ListAttendanceResponse, error) {
	filter, err := query.ToFilter(s.loc)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		s.logFailure("list attendance", "", err)
		return attendance.ListAttendanceResponse{}, err
	}

	return attendance.ListAttendanceResponse{
		Count:      len(records),
		Attendance: attendance.ToResponses(records),
	}, nil
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, userID string, query attendance.PeriodQuery) (attendance.EmployeeAttendanceResponse, error) {
	now := s.clock()
	period, err := query.Resolve(now)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	employee, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		s.logFailure("get employee", userID, err)
		return attendance.EmployeeAttendanceResponse{}, err
	}

	start, end := s.historyRange(period, now)
	records, err := s.AttendanceRepository.ListByUser(ctx, userID, start, end, 0)
	if err != nil {
		s.logFailure("get employee attendance", userID, err)
		return attendance.EmployeeAttendanceResponse{}, err
	}

	return attendance.EmployeeAttendanceResponse{
		Employee:   user.ToSummary(employee),
		Count:      len(records),
		Attendance: attendance.ToResponses(records),
	}, nil
}

// GetTeamSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTeamSummary(ctx context.Context, query attendance.PeriodQuery) (attendance.TeamSummaryResponse, error) {
	period, err := query.Resolve(s.clock())
	if err != nil {
		return attendance.TeamSummaryResponse{}, err
	}

	start, end := calendar.MonthRange(period.Year, int(period.Month), s.loc)
	records, err := s.AttendanceRepository.ListByRange(ctx, start, end)
	if err != nil {
		s.logFailure("get team summary", "", err)
		return attendance.TeamSummaryResponse{}, err
	}

	summary, departments := SummarizeTeam(records)
	return attendance.TeamSummaryResponse{
		Month:           int(period.Month),
		Year:            period.Year,
		Summary:         summary,
		DepartmentStats: departments,
	}, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	day := calendar.StartOfDay(s.clock())

	employees, err := s.UserRepository.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		s.logFailure("list employees", "", err)
		return attendance.TodayStatusResponse{}, err
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, day)
	if err != nil {
		s.logFailure("get today status", "", err)
		return attendance.TodayStatusResponse{}, err
	}

	return BuildTodayStatus(calendar.FormatDate(day), records, employees), nil
}

// ListEmployees implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEmployees(ctx context.Context) ([]user.EmployeeSummary, error) {
	employees, err := s.UserRepository.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		s.logFailure("list employees", "", err)
		return nil, err
	}

	out := make([]user.EmployeeSummary, 0, len(employees))
	for _, e := range employees {
		out = append(out, user.ToSummary(e))
	}
	return out, nil
}

func (s *AttendanceServiceImpl) publish(ctx context.Context, eventType attendance.EventType, resp attendance.AttendanceResponse) {
	if u, err := s.UserRepository.GetByID(ctx, resp.UserID); err == nil {
		summary := user.ToSummary(u)
		resp.Employee = &summary
	} else {
		slog.Warn("Failed to load employee for attendance event", "user_id", resp.UserID, "error", err)
	}

	s.publisher.Publish(ctx, attendance.Event{Type: eventType, Attendance: resp})
}

// logFailure logs unexpected failures. Business rule rejections are returned silently.
func (s *AttendanceServiceImpl) logFailure(op, userID string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, user.ErrUserNotFound),
		errors.As(err, &verrs):
		return
	}
	slog.Error("Failed to "+op, "user_id", userID, "error", err)
}
