package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/museqc/internal/core/report"
	"github.com/example/museqc/internal/ports/secondary"
)

// ReportRepository implements secondary.ReportRepository with SQLite.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new SQLite report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ secondary.ReportRepository = (*ReportRepository)(nil)

// QualityReportRows returns one row per real, fully analyzed collection,
// joined with the participant's site. Test recordings never reach reports.
func (r *ReportRepository) QualityReportRows(ctx context.Context) ([]report.Row, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.weston_id, p.site, c.start_dt, c.upload_dt, c.jpg_path,
			c.dur, c.ft_any, c.f_any, c.t_any
		FROM collections c
		JOIN participants p ON p.weston_id = c.weston_id
		WHERE c.has_quality = 1 AND c.is_test = 0
		ORDER BY c.weston_id, c.start_dt`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer rows.Close()

	var out []report.Row
	for rows.Next() {
		var (
			row                    report.Row
			startStr, uploadStr    string
			dur, ftAny, fAny, tAny sql.NullFloat64
		)
		err := rows.Scan(&row.WestonID, &row.Site, &startStr, &uploadStr, &row.JpgPath,
			&dur, &ftAny, &fAny, &tAny)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if row.StartTime, err = time.Parse(dbTimeLayout, startStr); err != nil {
			return nil, fmt.Errorf("failed to parse start time %q: %w", startStr, err)
		}
		if row.UploadTime, err = time.Parse(dbTimeLayout, uploadStr); err != nil {
			return nil, fmt.Errorf("failed to parse upload time %q: %w", uploadStr, err)
		}
		row.Duration = dur.Float64
		row.FtAny = ftAny.Float64
		row.FAny = fAny.Float64
		row.TAny = tAny.Float64
		out = append(out, row)
	}
	return out, rows.Err()
}
