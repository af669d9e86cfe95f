package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	loc           *time.Location
}

func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		loc:           loc,
	}
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := report.ExportRequest{
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		EmployeeID: q.Get("employeeId"),
		Format:     q.Get("format"),
	}

	filter, err := req.ToFilter(h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.Export(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance report exported", "format", filter.Format, "bytes", len(file.Content))
	response.Attachment(w, file.Filename, file.ContentType, file.Content)
}
