// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/museqc/internal/core/quality"
	"github.com/example/museqc/internal/core/recording"
	"github.com/example/museqc/internal/core/report"
)

// CollectionRepository defines the secondary port for collection persistence.
// A collection is identified by its natural key of weston ID, pod ID and
// start time, never by storage path.
type CollectionRepository interface {
	// Exists checks whether a collection row exists for the key.
	Exists(ctx context.Context, key recording.Key) (bool, error)

	// InsertBasicInfo persists the parsed header facts for a newly
	// discovered collection. Inserting an already known key is an error.
	InsertBasicInfo(ctx context.Context, rec *BasicInfoRecord) error

	// UpdateEdfPath records where the downloaded edf currently sits on
	// disk. An empty path means the local copy has been cleaned up.
	UpdateEdfPath(ctx context.Context, key recording.Key, path string) error

	// InsertQualityOutputs persists analyzer stats, artifact paths and the
	// quality classification in one step.
	InsertQualityOutputs(ctx context.Context, rec *QualityOutputsRecord) error

	// MarkFailed flags a collection whose processing cannot complete.
	MarkFailed(ctx context.Context, key recording.Key) error

	// UnprocessedEdfPaths lists local edf paths downloaded but not yet
	// analyzed and not failed.
	UnprocessedEdfPaths(ctx context.Context) ([]string, error)

	// ProcessedKeys returns every key that needs no further pipeline work:
	// downloaded, analyzed or failed.
	ProcessedKeys(ctx context.Context) (map[recording.Key]bool, error)

	// Counts reports pipeline totals for status output.
	Counts(ctx context.Context) (*CollectionCounts, error)
}

// BasicInfoRecord holds the facts known about a collection before download.
type BasicInfoRecord struct {
	Key            recording.Key
	TimezoneOffset float64
	UploadTime     time.Time
}

// QualityOutputsRecord holds everything the analyzer run produced for one
// collection.
type QualityOutputsRecord struct {
	Key     recording.Key
	Stats   *quality.QCStats
	JpgPath string
	Class   quality.Classification
}

// CollectionCounts are aggregate totals over the collections table.
type CollectionCounts struct {
	Total       int
	AwaitingEdf int
	WithQuality int
	Failed      int
}

// ParticipantRepository defines the secondary port for participant persistence.
type ParticipantRepository interface {
	// Exists checks whether a participant row exists for the weston ID.
	Exists(ctx context.Context, westonID string) (bool, error)

	// Insert creates a participant. Site may be empty when unknown.
	Insert(ctx context.Context, westonID, site string) error

	// UpdateSite sets the participant's collection site.
	UpdateSite(ctx context.Context, westonID, site string) error
}

// ConfigRepository defines the secondary port for pipeline bookkeeping values
// stored alongside the data.
type ConfigRepository interface {
	// LastDownloadTime returns the upload watermark of the newest object
	// downloaded so far. ok is false when nothing was downloaded yet.
	LastDownloadTime(ctx context.Context) (t time.Time, ok bool, err error)

	// SetLastDownloadTime advances the upload watermark.
	SetLastDownloadTime(ctx context.Context, t time.Time) error
}

// ReportRepository defines the secondary port for reading report rows.
type ReportRepository interface {
	// QualityReportRows returns one row per real, fully analyzed
	// collection, joined with the participant's site.
	QualityReportRows(ctx context.Context) ([]report.Row, error)
}
