package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	MySummary(w http.ResponseWriter, r *http.Request)
	All(w http.ResponseWriter, r *http.Request)
	Employee(w http.ResponseWriter, r *http.Request)
	TeamSummary(w http.ResponseWriter, r *http.Request)
	TodayStatus(w http.ResponseWriter, r *http.Request)
	Employees(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func periodQuery(r *http.Request) attendance.PeriodQuery {
	q := r.URL.Query()
	return attendance.PeriodQuery{Month: q.Get("month"), Year: q.Get("year")}
}

// principal writes 401 and returns false when the request carries no principal
func principal(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authorized, no token")
	}
	return p, ok
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked in", "user_id", p.UserID, "status", result.Status)
	response.SuccessWithMessage(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked out", "user_id", p.UserID, "total_hours", result.TotalHours)
	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetMyHistory(r.Context(), p.UserID, periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// MySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetMySummary(r.Context(), p.UserID, periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// All implements AttendanceHandler.
func (h *attendanceHandlerImpl) All(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := attendance.RangeQuery{
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		Status:     q.Get("status"),
		EmployeeID: q.Get("employeeId"),
		Department: q.Get("department"),
	}

	result, err := h.attendanceService.ListAll(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Employee implements AttendanceHandler.
func (h *attendanceHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetEmployeeAttendance(r.Context(), userID, periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// TeamSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) TeamSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetTeamSummary(r.Context(), periodQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// TodayStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) TodayStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetTodayStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Employees implements AttendanceHandler.
func (h *attendanceHandlerImpl) Employees(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
