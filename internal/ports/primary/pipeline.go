// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"
)

// PipelineService defines the primary port for the collection pipeline: find
// new uploads in the bucket, download them, run the quality analyzer and
// persist the results.
type PipelineService interface {
	// RunCycle runs one full pipeline pass.
	RunCycle(ctx context.Context, req RunCycleRequest) (*RunCycleResponse, error)

	// Status reports pipeline totals without touching the bucket.
	Status(ctx context.Context) (*PipelineStatus, error)
}

// RunCycleRequest bounds one pipeline pass.
type RunCycleRequest struct {
	// MaxPerBatch caps how many files are downloaded before the analyzer
	// sweep runs.
	MaxPerBatch int
	// MaxTotal caps how many files the whole pass may process.
	MaxTotal int
}

// RunCycleResponse summarizes what one pipeline pass did.
type RunCycleResponse struct {
	Listed      int
	Eligible    int
	Registered  int
	Downloaded  int
	Analyzed    int
	Quarantined int
}

// PipelineStatus reports persistent pipeline totals.
type PipelineStatus struct {
	Total        int
	AwaitingEdf  int
	WithQuality  int
	Failed       int
	LastDownload time.Time
	// HasDownloads is false before the first successful download.
	HasDownloads bool
}
