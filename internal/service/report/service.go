package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
)

// TimeLayout renders check-in and check-out cells
const TimeLayout = "3:04:05 PM"

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	loc *time.Location
}

func NewReportService(attendanceRepository attendance.AttendanceRepository, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepository,
		loc:                  loc,
	}
}

// Rows returns matching records newest first as formatted export rows
func (s *ReportServiceImpl) Rows(ctx context.Context, filter report.ExportFilter) ([]report.Row, error) {
	records, err := s.AttendanceRepository.List(ctx, attendance.AttendanceFilter{
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		EmployeeID: filter.EmployeeID,
	})
	if err != nil {
		slog.Error("Failed to load export records", "error", err)
		return nil, err
	}

	rows := make([]report.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, FormatRow(r, s.loc))
	}
	return rows, nil
}

// Export renders the rows as a downloadable file
func (s *ReportServiceImpl) Export(ctx context.Context, filter report.ExportFilter) (report.File, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return report.File{}, err
	}

	switch filter.Format {
	case report.FormatXLSX:
		content, err := WriteXLSX(rows)
		if err != nil {
			return report.File{}, fmt.Errorf("failed to render xlsx report: %w", err)
		}
		return report.File{
			Filename:    "attendance-report.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	default:
		content, err := WriteCSV(rows)
		if err != nil {
			return report.File{}, fmt.Errorf("failed to render csv report: %w", err)
		}
		return report.File{
			Filename:    "attendance-report.csv",
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}

// FormatRow projects a joined record onto the export columns
func FormatRow(a attendance.Attendance, loc *time.Location) report.Row {
	return report.Row{
		Date:       calendar.FormatDate(a.Date.In(loc)),
		EmployeeID: orNotAvailable(a.EmployeeCode),
		Name:       orNotAvailable(a.EmployeeName),
		Department: orNotAvailable(a.EmployeeDepartment),
		CheckIn:    formatTime(a.CheckInTime, loc),
		CheckOut:   formatTime(a.CheckOutTime, loc),
		Status:     string(a.Status),
		TotalHours: fmt.Sprintf("%.2f", a.TotalHours),
	}
}

func orNotAvailable(s *string) string {
	if s == nil || *s == "" {
		return report.NotAvailable
	}
	return *s
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return report.NotAvailable
	}
	return t.In(loc).Format(TimeLayout)
}
