package attendance

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ===== QUERIES =====

// PeriodQuery selects a calendar month. Both fields are optional query strings.
type PeriodQuery struct {
	Month string
	Year  string
}

// Period is a validated month/year pair
type Period struct {
	Month time.Month
	Year  int
	Set   bool // both month and year were supplied
}

// Resolve validates the query, defaulting missing parts to now's month and year.
func (q PeriodQuery) Resolve(now time.Time) (Period, error) {
	var errs validator.ValidationErrors
	p := Period{Month: now.Month(), Year: now.Year()}

	if !validator.IsEmpty(q.Month) {
		m, err := strconv.Atoi(q.Month)
		if err != nil || m < 1 || m > 12 {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
		} else {
			p.Month = time.Month(m)
		}
	}

	if !validator.IsEmpty(q.Year) {
		y, err := strconv.Atoi(q.Year)
		if err != nil || y < 2000 || y > 2100 {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
		} else {
			p.Year = y
		}
	}

	if len(errs) > 0 {
		return Period{}, errs
	}
	p.Set = !validator.IsEmpty(q.Month) && !validator.IsEmpty(q.Year)
	return p, nil
}

// RangeQuery holds the manager filters for listing team records
type RangeQuery struct {
	StartDate  string
	EndDate    string
	Status     string
	EmployeeID string
	Department string
}

// AttendanceFilter is a validated RangeQuery. Nil fields do not filter.
type AttendanceFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *Status
	EmployeeID *string
	Department *string
}

// ToFilter validates the query, parsing dates as local calendar days.
func (q RangeQuery) ToFilter(loc *time.Location) (AttendanceFilter, error) {
	var errs validator.ValidationErrors
	var f AttendanceFilter

	if !validator.IsEmpty(q.StartDate) {
		d, err := calendar.ParseDate(q.StartDate, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
		} else {
			f.StartDate = &d
		}
	}

	if !validator.IsEmpty(q.EndDate) {
		d, err := calendar.ParseDate(q.EndDate, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "endDate", Message: "must be in YYYY-MM-DD format"})
		} else {
			f.EndDate = &d
		}
	}

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "must not be before startDate"})
	}

	if !validator.IsEmpty(q.Status) {
		s := Status(q.Status)
		if !s.IsValid() {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of present, absent, late, half-day"})
		} else {
			f.Status = &s
		}
	}

	if !validator.IsEmpty(q.EmployeeID) {
		f.EmployeeID = &q.EmployeeID
	}
	if !validator.IsEmpty(q.Department) {
		f.Department = &q.Department
	}

	if len(errs) > 0 {
		return AttendanceFilter{}, errs
	}
	return f, nil
}

// ===== RESPONSES =====

type AttendanceResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"userId"`
	Date         string                `json:"date"`
	CheckInTime  *time.Time            `json:"checkInTime"`
	CheckOutTime *time.Time            `json:"checkOutTime"`
	Status       Status                `json:"status"`
	TotalHours   float64               `json:"totalHours"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	Employee     *user.EmployeeSummary `json:"employee,omitempty"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         calendar.FormatDate(a.Date),
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		Status:       a.Status,
		TotalHours:   a.TotalHours,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.EmployeeName != nil {
		resp.Employee = &user.EmployeeSummary{
			ID:         a.UserID,
			Name:       *a.EmployeeName,
			Email:      deref(a.EmployeeEmail),
			EmployeeID: deref(a.EmployeeCode),
			Department: deref(a.EmployeeDepartment),
		}
	}
	return resp
}

func ToResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToResponse(r))
	}
	return out
}

type TodayResponse struct {
	Attendance   *AttendanceResponse `json:"attendance"`
	IsCheckedIn  bool                `json:"isCheckedIn"`
	IsCheckedOut bool                `json:"isCheckedOut"`
}

type ListAttendanceResponse struct {
	Count      int                  `json:"count"`
	Attendance []AttendanceResponse `json:"attendance"`
}

type EmployeeAttendanceResponse struct {
	Employee   user.EmployeeSummary `json:"employee"`
	Count      int                  `json:"count"`
	Attendance []AttendanceResponse `json:"attendance"`
}

// StatusCounts is a per-status tally
type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	HalfDay int `json:"halfDay"`
}

// PersonalSummary counts attended days. Absent is inferred from working days.
type PersonalSummary struct {
	StatusCounts
	TotalHours float64 `json:"totalHours"`
}

type MySummaryResponse struct {
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	WorkingDays int             `json:"workingDays"`
	Summary     PersonalSummary `json:"summary"`
}

// TeamSummary counts stored statuses literally
type TeamSummary struct {
	TotalRecords int `json:"totalRecords"`
	StatusCounts
}

type TeamSummaryResponse struct {
	Month           int                     `json:"month"`
	Year            int                     `json:"year"`
	Summary         TeamSummary             `json:"summary"`
	DepartmentStats map[string]StatusCounts `json:"departmentStats"`
}

// PresentEntry is an employee with a record today
type PresentEntry struct {
	user.EmployeeSummary
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Status       Status     `json:"status"`
}

type TodayStatusResponse struct {
	Date           string                 `json:"date"`
	TotalEmployees int                    `json:"totalEmployees"`
	Present        int                    `json:"present"`
	Absent         int                    `json:"absent"`
	LateArrivals   int                    `json:"lateArrivals"`
	PresentList    []PresentEntry         `json:"presentList"`
	AbsentList     []user.EmployeeSummary `json:"absentList"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Add counts one stored status
func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusLate:
		c.Late++
	case StatusHalfDay:
		c.HalfDay++
	}
}
