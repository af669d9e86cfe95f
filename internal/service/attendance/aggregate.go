package attendance

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// CountStatuses tallies stored statuses literally.
func CountStatuses(records []attendance.Attendance) attendance.StatusCounts {
	var c attendance.StatusCounts
	for _, r := range records {
		c.Add(r.Status)
	}
	return c
}

// SummarizePersonal folds one user's records over a period. Absence is inferred
// from workingDays; records stored as absent are neither counted nor treated as recorded days.
func SummarizePersonal(records []attendance.Attendance, workingDays int) attendance.PersonalSummary {
	var s attendance.PersonalSummary
	total := decimal.Zero

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			s.Present++
		case attendance.StatusLate:
			s.Late++
		case attendance.StatusHalfDay:
			s.HalfDay++
		}
		total = total.Add(decimal.NewFromFloat(r.TotalHours))
	}

	recorded := s.Present + s.Late + s.HalfDay
	s.Absent = max(0, workingDays-recorded)
	s.TotalHours = total.Round(2).InexactFloat64()
	return s
}

// SummarizeTeam counts every stored status and breaks them down by the joined user's department.
func SummarizeTeam(records []attendance.Attendance) (attendance.TeamSummary, map[string]attendance.StatusCounts) {
	summary := attendance.TeamSummary{TotalRecords: len(records)}
	departments := make(map[string]attendance.StatusCounts)

	for _, r := range records {
		summary.Add(r.Status)

		if r.EmployeeDepartment == nil {
			continue
		}
		dept := departments[*r.EmployeeDepartment]
		dept.Add(r.Status)
		departments[*r.EmployeeDepartment] = dept
	}

	return summary, departments
}

// BuildTodayStatus splits the employee roster by whether each has checked in on day.
// Records of users outside the roster are ignored.
func BuildTodayStatus(day string, records []attendance.Attendance, employees []user.User) attendance.TodayStatusResponse {
	resp := attendance.TodayStatusResponse{
		Date:           day,
		TotalEmployees: len(employees),
		PresentList:    []attendance.PresentEntry{},
		AbsentList:     []user.EmployeeSummary{},
	}

	roster := make(map[string]user.User, len(employees))
	for _, e := range employees {
		roster[e.ID] = e
	}

	checkedIn := make(map[string]struct{}, len(records))
	for _, r := range records {
		e, ok := roster[r.UserID]
		// manager records stay out so present + absent always equals the roster
		if !ok {
			continue
		}
		if r.Status == attendance.StatusLate {
			resp.LateArrivals++
		}
		if r.CheckInTime == nil {
			continue
		}

		checkedIn[r.UserID] = struct{}{}
		resp.PresentList = append(resp.PresentList, attendance.PresentEntry{
			EmployeeSummary: user.ToSummary(e),
			CheckInTime:     r.CheckInTime,
			CheckOutTime:    r.CheckOutTime,
			Status:          r.Status,
		})
	}

	for _, e := range employees {
		if _, ok := checkedIn[e.ID]; !ok {
			resp.AbsentList = append(resp.AbsentList, user.ToSummary(e))
		}
	}

	resp.Present = len(resp.PresentList)
	resp.Absent = len(resp.AbsentList)
	return resp
}

// CountCheckedIn returns how many records carry a check-in.
func CountCheckedIn(records []attendance.Attendance) int {
	n := 0
	for _, r := range records {
		if r.CheckInTime != nil {
			n++
		}
	}
	return n
}
