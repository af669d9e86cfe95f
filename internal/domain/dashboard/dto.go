package dashboard

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// ========== EMPLOYEE DASHBOARD ==========

// StatusNotCheckedIn is reported for today when no record exists yet
const StatusNotCheckedIn = "not-checked-in"

type EmployeeDashboardResponse struct {
	Today            TodaySnapshot     `json:"today"`
	Monthly          MonthlySnapshot   `json:"monthly"`
	RecentAttendance []RecentAttendance `json:"recentAttendance"`
}

type TodaySnapshot struct {
	Date         string     `json:"date"` // Format: "YYYY-MM-DD"
	IsCheckedIn  bool       `json:"isCheckedIn"`
	IsCheckedOut bool       `json:"isCheckedOut"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Status       string     `json:"status"`
	TotalHours   float64    `json:"totalHours"`
}

// MonthlySnapshot is the month-to-date personal summary
type MonthlySnapshot struct {
	attendance.PersonalSummary
	WorkingDays int `json:"workingDays"`
}

type RecentAttendance struct {
	Date         string            `json:"date"`
	Status       attendance.Status `json:"status"`
	CheckInTime  *time.Time        `json:"checkInTime"`
	CheckOutTime *time.Time        `json:"checkOutTime"`
	TotalHours   float64           `json:"totalHours"`
}

// ========== MANAGER DASHBOARD ==========

type ManagerDashboardResponse struct {
	Overview        Overview               `json:"overview"`
	WeeklyTrend     []WeeklyTrendPoint     `json:"weeklyTrend"`
	DepartmentStats []DepartmentStat       `json:"departmentStats"`
	AbsentEmployees []user.EmployeeSummary `json:"absentEmployees"`
	MonthlyStats    MonthlyStats           `json:"monthlyStats"`
}

// Overview counts today's presence over role=employee users
type Overview struct {
	TotalEmployees int `json:"totalEmployees"`
	PresentToday   int `json:"presentToday"`
	AbsentToday    int `json:"absentToday"`
	LateToday      int `json:"lateToday"`
}

// WeeklyTrendPoint is one working day of the trailing week
type WeeklyTrendPoint struct {
	Date    string `json:"date"`    // Format: "YYYY-MM-DD"
	DayName string `json:"dayName"` // Format: "Mon"
	Present int    `json:"present"`
	Late    int    `json:"late"`
	HalfDay int    `json:"halfDay"`
	Absent  int    `json:"absent"`
}

// DepartmentStat is today's presence for one department of the roster
type DepartmentStat struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
}

// MonthlyStats are literal current-month counts, no absence inference
type MonthlyStats struct {
	TotalRecords int `json:"totalRecords"`
	Present      int `json:"present"`
	Late         int `json:"late"`
	HalfDay      int `json:"halfDay"`
}
