package primary

import (
	"context"
	"time"
)

// ReportService defines the primary port for generating the monthly quality
// reports.
type ReportService interface {
	// GenerateReports refreshes participant sites and writes the summary,
	// in-depth and number-of-days reports.
	GenerateReports(ctx context.Context, req GenerateReportsRequest) (*GenerateReportsResponse, error)
}

// GenerateReportsRequest controls one report run.
type GenerateReportsRequest struct {
	// Now anchors the report month. The zero value means time.Now.
	Now time.Time
	// SkipRosterRefresh generates reports from the sites already on file
	// without calling the roster service.
	SkipRosterRefresh bool
}

// GenerateReportsResponse lists what a report run produced.
type GenerateReportsResponse struct {
	// SummaryPath is the summary csv written, or empty when skipped.
	SummaryPath string
	// SummarySkipped is true when the month's summary already existed.
	SummarySkipped bool
	InDepthPaths   []string
	NumDaysPath    string
}
