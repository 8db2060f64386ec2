package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/example/museqc/internal/core/report"
	"github.com/example/museqc/internal/core/sitelookup"
	"github.com/example/museqc/internal/ports/primary"
	"github.com/example/museqc/internal/ports/secondary"
)

// ReportConfig carries the report settings the service needs.
type ReportConfig struct {
	ReportDir     string
	SiteLookupCSV string
}

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	participants secondary.ParticipantRepository
	reports      secondary.ReportRepository
	roster       secondary.RosterClient
	renderer     secondary.ReportRenderer
	files        secondary.LocalFiles
	cfg          ReportConfig
	logger       *log.Logger
}

var _ primary.ReportService = (*ReportServiceImpl)(nil)

// NewReportService creates a new ReportService with injected dependencies.
func NewReportService(
	participants secondary.ParticipantRepository,
	reports secondary.ReportRepository,
	roster secondary.RosterClient,
	renderer secondary.ReportRenderer,
	files secondary.LocalFiles,
	cfg ReportConfig,
	logger *log.Logger,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		participants: participants,
		reports:      reports,
		roster:       roster,
		renderer:     renderer,
		files:        files,
		cfg:          cfg,
		logger:       logger,
	}
}

// GenerateReports refreshes participant sites and writes the number-of-days,
// summary and in-depth reports for the month before req.Now.
func (s *ReportServiceImpl) GenerateReports(ctx context.Context, req primary.GenerateReportsRequest) (*primary.GenerateReportsResponse, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// Reports cover the last finished month. The current month is always
	// in flight and would under count every participant.
	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	month := cutoff.AddDate(0, -1, 0)

	if !req.SkipRosterRefresh {
		s.refreshSites(ctx)
	}

	rows, err := s.reports.QualityReportRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load report rows: %w", err)
	}
	participants := report.GroupByParticipant(rows)

	resp := &primary.GenerateReportsResponse{}

	resp.NumDaysPath, err = s.writeNumDays(participants, now)
	if err != nil {
		return nil, err
	}

	resp.SummaryPath, resp.SummarySkipped, err = s.writeSummary(ctx, participants, month, cutoff)
	if err != nil {
		return nil, err
	}

	resp.InDepthPaths, err = s.writeInDepth(ctx, participants)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// refreshSites pulls the current roster and applies it to the participants on
// file. Any failure here degrades to the sites already stored, it never
// blocks report generation.
func (s *ReportServiceImpl) refreshSites(ctx context.Context) {
	if err := s.roster.DownloadSiteLookup(ctx, s.cfg.SiteLookupCSV); err != nil {
		s.logger.Printf("WARN: roster refresh failed, using sites on file: %v", err)
	}

	f, err := os.Open(s.cfg.SiteLookupCSV)
	if err != nil {
		s.logger.Printf("WARN: no site lookup table: %v", err)
		return
	}
	defer f.Close()

	entries, err := sitelookup.Parse(f, s.logger)
	if err != nil {
		s.logger.Printf("WARN: unusable site lookup table: %v", err)
		return
	}

	for _, e := range entries {
		known, err := s.participants.Exists(ctx, e.WestonID)
		if err != nil {
			s.logger.Printf("WARN: failed to check participant %s: %v", e.WestonID, err)
			continue
		}
		if !known {
			// Roster entries without recordings are expected, the
			// pipeline creates rows only when data arrives.
			continue
		}
		if err := s.participants.UpdateSite(ctx, e.WestonID, e.Site); err != nil {
			s.logger.Printf("WARN: failed to update site for %s: %v", e.WestonID, err)
		}
	}
}

func (s *ReportServiceImpl) writeNumDays(participants []report.ParticipantCollections, now time.Time) (string, error) {
	dir := filepath.Join(s.cfg.ReportDir, "NumDays")
	path := filepath.Join(dir, report.NumDaysFileName(now))
	err := s.writeCSV(dir, path, func(w io.Writer) error {
		return report.WriteNumDays(w, participants)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// writeSummary writes the month's summary csv and renders its pdf. A month
// whose csv already exists is left untouched so reruns never clobber a report
// that may already have been distributed.
func (s *ReportServiceImpl) writeSummary(ctx context.Context, participants []report.ParticipantCollections, month, cutoff time.Time) (path string, skipped bool, err error) {
	csvDir := filepath.Join(s.cfg.ReportDir, "Summary", "csv")
	pdfDir := filepath.Join(s.cfg.ReportDir, "Summary", "pdf")
	path = filepath.Join(csvDir, report.SummaryFileName(month))

	if s.files.Exists(path) {
		s.logger.Printf("summary for %s already exists, skipping", month.Format("January 2006"))
		return "", true, nil
	}

	summary := report.Summarize(participants, cutoff)
	err = s.writeCSV(csvDir, path, func(w io.Writer) error {
		return report.WriteSummary(w, summary)
	})
	if err != nil {
		return "", false, err
	}

	if err := s.files.EnsureDir(pdfDir); err != nil {
		return "", false, fmt.Errorf("failed to create %s: %w", pdfDir, err)
	}
	if err := s.renderer.Render(ctx, secondary.RenderSummary, path, pdfDir); err != nil {
		s.logger.Printf("WARN: summary pdf not rendered: %v", err)
	}
	return path, false, nil
}

// writeInDepth writes one listing per site and collection month with data,
// so late-arriving uploads still get their month's report on the next run.
func (s *ReportServiceImpl) writeInDepth(ctx context.Context, participants []report.ParticipantCollections) ([]string, error) {
	bySite := report.ParticipantsBySiteMonth(participants)

	sites := make([]string, 0, len(bySite))
	for site := range bySite {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	var paths []string
	for _, site := range sites {
		months := make([]time.Time, 0, len(bySite[site]))
		for month := range bySite[site] {
			months = append(months, month)
		}
		sort.Slice(months, func(i, j int) bool { return months[j].Before(months[i]) })

		csvDir := filepath.Join(s.cfg.ReportDir, "InDepth", "csv", site)
		pdfDir := filepath.Join(s.cfg.ReportDir, "InDepth", "pdf", site)

		for _, month := range months {
			path := filepath.Join(csvDir, report.InDepthFileName(site, month))

			group := bySite[site][month]
			err := s.writeCSV(csvDir, path, func(w io.Writer) error {
				return report.WriteInDepth(w, group)
			})
			if err != nil {
				return nil, err
			}

			if err := s.files.EnsureDir(pdfDir); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", pdfDir, err)
			}
			if err := s.renderer.Render(ctx, secondary.RenderJpg, path, pdfDir); err != nil {
				s.logger.Printf("WARN: in-depth pdf for %s not rendered: %v", site, err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func (s *ReportServiceImpl) writeCSV(dir, path string, write func(io.Writer) error) error {
	if err := s.files.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
