// Package wire provides dependency injection for the museqc application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/example/museqc/internal/adapters/analyzer"
	"github.com/example/museqc/internal/adapters/filesystem"
	"github.com/example/museqc/internal/adapters/gcs"
	"github.com/example/museqc/internal/adapters/renderer"
	"github.com/example/museqc/internal/adapters/roster"
	"github.com/example/museqc/internal/adapters/sqlite"
	"github.com/example/museqc/internal/app"
	"github.com/example/museqc/internal/config"
	"github.com/example/museqc/internal/core/quality"
	"github.com/example/museqc/internal/db"
	"github.com/example/museqc/internal/ports/primary"
)

// configEnv overrides the default config file location.
const configEnv = "MUSEQC_CONFIG"

var (
	cfg     *config.Config
	cfgErr  error
	cfgOnce sync.Once

	database *sql.DB
	dbErr    error
	dbOnce   sync.Once

	pipelineService primary.PipelineService
	pipelineErr     error
	pipelineOnce    sync.Once

	reportService primary.ReportService
	reportErr     error
	reportOnce    sync.Once

	logger = log.New(os.Stderr, "", log.LstdFlags)
)

// Logger returns the shared application logger.
func Logger() *log.Logger {
	return logger
}

// Load returns the singleton configuration, reading it on first use.
func Load() (*config.Config, error) {
	cfgOnce.Do(func() {
		path := os.Getenv(configEnv)
		if path == "" {
			path = "museqc.json"
		}
		cfg, cfgErr = config.Load(path)
	})
	return cfg, cfgErr
}

// openDB returns the singleton database handle.
func openDB() (*sql.DB, error) {
	dbOnce.Do(func() {
		c, err := Load()
		if err != nil {
			dbErr = err
			return
		}
		database, dbErr = db.Open(c.DBPath)
	})
	return database, dbErr
}

// PipelineService returns the singleton PipelineService instance. The
// context is used once, to set up the bucket client.
func PipelineService(ctx context.Context) (primary.PipelineService, error) {
	pipelineOnce.Do(func() {
		c, err := Load()
		if err != nil {
			pipelineErr = err
			return
		}
		if err := c.Validate(); err != nil {
			pipelineErr = err
			return
		}

		policy, err := quality.ParsePolicy(c.DecisionPolicy)
		if err != nil {
			pipelineErr = err
			return
		}

		conn, err := openDB()
		if err != nil {
			pipelineErr = err
			return
		}

		store, err := gcs.NewStore(ctx)
		if err != nil {
			pipelineErr = fmt.Errorf("failed to set up bucket client: %w", err)
			return
		}

		pipelineService = app.NewPipelineService(
			sqlite.NewCollectionRepository(conn),
			sqlite.NewParticipantRepository(conn),
			sqlite.NewConfigRepository(conn),
			store,
			analyzer.NewRunner(c.PythonPath, c.QualityScript, logger),
			filesystem.NewFiles(),
			app.PipelineConfig{
				BucketRoots:      c.BucketRoots,
				EdfDir:           c.EdfDir,
				OutputDir:        c.OutputDir,
				JpgDir:           c.JpgDir,
				QuarantineDir:    c.QuarantineDir,
				RequiredIDPrefix: c.RequiredIDPrefix,
				MinSizeBytes:     c.MinSizeBytes,
				Policy:           policy,
			},
			logger,
		)
	})
	return pipelineService, pipelineErr
}

// ReportService returns the singleton ReportService instance.
func ReportService() (primary.ReportService, error) {
	reportOnce.Do(func() {
		c, err := Load()
		if err != nil {
			reportErr = err
			return
		}
		if err := c.ValidateReports(); err != nil {
			reportErr = err
			return
		}

		conn, err := openDB()
		if err != nil {
			reportErr = err
			return
		}

		reportService = app.NewReportService(
			sqlite.NewParticipantRepository(conn),
			sqlite.NewReportRepository(conn),
			roster.NewClient(c.RosterURL, c.RosterCredentials),
			renderer.NewRenderer(c.PythonPath, c.RenderScript, logger),
			filesystem.NewFiles(),
			app.ReportConfig{
				ReportDir:     c.ReportDir,
				SiteLookupCSV: c.SiteLookupCSV,
			},
			logger,
		)
	})
	return reportService, reportErr
}
