package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// NotAvailable fills cells whose source value is missing
const NotAvailable = "N/A"

// Columns is the fixed export header
var Columns = []string{"Date", "EmployeeID", "Name", "Department", "CheckIn", "CheckOut", "Status", "TotalHours"}

type ExportRequest struct {
	StartDate  string
	EndDate    string
	EmployeeID string
	Format     string
}

// ExportFilter is a validated ExportRequest
type ExportFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	EmployeeID *string
	Format     Format
}

func (r ExportRequest) ToFilter(loc *time.Location) (ExportFilter, error) {
	var errs validator.ValidationErrors
	f := ExportFilter{Format: FormatCSV}

	if !validator.IsEmpty(r.StartDate) {
		d, err := calendar.ParseDate(r.StartDate, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
		} else {
			f.StartDate = &d
		}
	}

	if !validator.IsEmpty(r.EndDate) {
		d, err := calendar.ParseDate(r.EndDate, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "endDate", Message: "must be in YYYY-MM-DD format"})
		} else {
			f.EndDate = &d
		}
	}

	if !validator.IsEmpty(r.EmployeeID) {
		f.EmployeeID = &r.EmployeeID
	}

	switch Format(r.Format) {
	case "", FormatCSV:
	case FormatXLSX:
		f.Format = FormatXLSX
	default:
		errs = append(errs, validator.ValidationError{Field: "format", Message: "must be csv or xlsx"})
	}

	if len(errs) > 0 {
		return ExportFilter{}, errs
	}
	return f, nil
}

// Row is one flat export line, already formatted
type Row struct {
	Date       string
	EmployeeID string
	Name       string
	Department string
	CheckIn    string
	CheckOut   string
	Status     string
	TotalHours string
}

// Values returns the row in column order
func (r Row) Values() []string {
	return []string{r.Date, r.EmployeeID, r.Name, r.Department, r.CheckIn, r.CheckOut, r.Status, r.TotalHours}
}

// File is a rendered export
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}
