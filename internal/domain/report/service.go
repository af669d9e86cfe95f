package report

import "context"

type ReportService interface {
	// Rows builds the export projection for the filter
	Rows(ctx context.Context, filter ExportFilter) ([]Row, error)

	// Export renders the projection in the requested format
	Export(ctx context.Context, filter ExportFilter) (File, error)
}
