package secondary

import "context"

// RenderKind selects which pdf layout the renderer produces.
type RenderKind string

const (
	// RenderSummary renders the tabular monthly summary.
	RenderSummary RenderKind = "summary"
	// RenderJpg renders the in-depth listing with embedded quality jpgs.
	RenderJpg RenderKind = "jpg"
)

// ReportRenderer defines the secondary port for turning report csvs into
// pdfs.
type ReportRenderer interface {
	// Render produces a pdf in outputDir from the given csv.
	Render(ctx context.Context, kind RenderKind, csvPath, outputDir string) error
}
