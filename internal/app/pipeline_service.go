package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/museqc/internal/core/filename"
	"github.com/example/museqc/internal/core/quality"
	"github.com/example/museqc/internal/core/recording"
	"github.com/example/museqc/internal/core/selection"
	"github.com/example/museqc/internal/ports/primary"
	"github.com/example/museqc/internal/ports/secondary"
)

// PipelineConfig carries the pipeline settings the service needs.
type PipelineConfig struct {
	BucketRoots      []string
	EdfDir           string
	OutputDir        string
	JpgDir           string
	QuarantineDir    string
	RequiredIDPrefix string
	MinSizeBytes     int64
	Policy           quality.Policy
}

// PipelineServiceImpl implements the PipelineService interface.
type PipelineServiceImpl struct {
	collections  secondary.CollectionRepository
	participants secondary.ParticipantRepository
	configRepo   secondary.ConfigRepository
	store        secondary.ObjectStore
	runner       secondary.QualityRunner
	files        secondary.LocalFiles
	cfg          PipelineConfig
	logger       *log.Logger
}

var _ primary.PipelineService = (*PipelineServiceImpl)(nil)

// NewPipelineService creates a new PipelineService with injected dependencies.
func NewPipelineService(
	collections secondary.CollectionRepository,
	participants secondary.ParticipantRepository,
	configRepo secondary.ConfigRepository,
	store secondary.ObjectStore,
	runner secondary.QualityRunner,
	files secondary.LocalFiles,
	cfg PipelineConfig,
	logger *log.Logger,
) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		collections:  collections,
		participants: participants,
		configRepo:   configRepo,
		store:        store,
		runner:       runner,
		files:        files,
		cfg:          cfg,
		logger:       logger,
	}
}

// RunCycle runs one full pipeline pass: list the buckets, select the oldest
// unprocessed uploads, download them in batches and analyze each batch before
// fetching the next.
func (s *PipelineServiceImpl) RunCycle(ctx context.Context, req primary.RunCycleRequest) (*primary.RunCycleResponse, error) {
	resp := &primary.RunCycleResponse{}

	// A listing failure aborts the whole pass. Working from a partial
	// listing would make the oldest-first ordering meaningless.
	candidates, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	resp.Listed = len(candidates)

	processed, err := s.collections.ProcessedKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed keys: %w", err)
	}

	pool := selection.NewPool(candidates, processed, selection.Config{
		RequiredIDPrefix: s.cfg.RequiredIDPrefix,
		MinSize:          s.cfg.MinSizeBytes,
	})
	resp.Eligible = pool.Len()

	maxTotal := req.MaxTotal
	if maxTotal <= 0 {
		maxTotal = pool.Len()
	}
	maxPerBatch := req.MaxPerBatch
	if maxPerBatch <= 0 {
		maxPerBatch = maxTotal
	}

	done := 0
	for done < maxTotal && pool.Len() > 0 {
		n := maxPerBatch
		if remaining := maxTotal - done; remaining < n {
			n = remaining
		}
		batch := pool.Take(n)
		done += len(batch)

		downloaded := s.downloadBatch(ctx, batch, resp)

		analyzed, quarantined := s.analyzeSweep(ctx)
		resp.Analyzed += analyzed
		resp.Quarantined += quarantined

		if downloaded == 0 && analyzed == 0 {
			// Nothing moved this batch, stop rather than spin on a
			// broken bucket or analyzer.
			break
		}
	}

	return resp, nil
}

// Status reports pipeline totals without touching the bucket.
func (s *PipelineServiceImpl) Status(ctx context.Context) (*primary.PipelineStatus, error) {
	counts, err := s.collections.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}

	last, ok, err := s.configRepo.LastDownloadTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read download watermark: %w", err)
	}

	return &primary.PipelineStatus{
		Total:        counts.Total,
		AwaitingEdf:  counts.AwaitingEdf,
		WithQuality:  counts.WithQuality,
		Failed:       counts.Failed,
		LastDownload: last,
		HasDownloads: ok,
	}, nil
}

// listAll lists every configured bucket root. Each descriptor carries the
// root it was listed from, so the same relative path under two roots can
// never be fetched from the wrong one.
func (s *PipelineServiceImpl) listAll(ctx context.Context) ([]recording.Descriptor, error) {
	var candidates []recording.Descriptor

	for _, root := range s.cfg.BucketRoots {
		objects, err := s.store.List(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", root, err)
		}
		for _, obj := range objects {
			d := recording.NewDescriptor(obj.Path, obj.Uploaded, obj.Size, "B")
			d.Root = root
			candidates = append(candidates, d)
		}
	}
	return candidates, nil
}

// downloadBatch registers and downloads one batch. Returns how many files
// landed on disk.
func (s *PipelineServiceImpl) downloadBatch(
	ctx context.Context,
	batch []recording.Descriptor,
	resp *primary.RunCycleResponse,
) int {
	downloaded := 0
	var watermark time.Time
	advanced := false

	for _, desc := range batch {
		key := desc.Key()

		// Registration is fail closed: a file whose facts cannot be
		// persisted is not downloaded.
		if err := s.register(ctx, desc); err != nil {
			s.logger.Printf("WARN: skipping %s: %v", desc.Path, err)
			continue
		}
		resp.Registered++

		dest := filepath.Join(s.cfg.EdfDir, desc.LocalFileName())
		if err := s.store.Download(ctx, desc.Root, desc.Path, dest); err != nil {
			s.logger.Printf("WARN: download failed for %s: %v", desc.Path, err)
			continue
		}

		if err := s.collections.UpdateEdfPath(ctx, key, dest); err != nil {
			s.logger.Printf("WARN: failed to record edf path for %s: %v", key, err)
			continue
		}
		downloaded++
		resp.Downloaded++

		if desc.UploadTime.After(watermark) {
			watermark = desc.UploadTime
			advanced = true
		}
	}

	if advanced {
		if last, ok, err := s.configRepo.LastDownloadTime(ctx); err != nil {
			s.logger.Printf("WARN: failed to read download watermark: %v", err)
		} else if !ok || watermark.After(last) {
			if err := s.configRepo.SetLastDownloadTime(ctx, watermark); err != nil {
				s.logger.Printf("WARN: failed to advance download watermark: %v", err)
			}
		}
	}
	return downloaded
}

// register makes sure the participant and collection rows exist before any
// download happens.
func (s *PipelineServiceImpl) register(ctx context.Context, desc recording.Descriptor) error {
	key := desc.Key()

	known, err := s.participants.Exists(ctx, key.WestonID)
	if err != nil {
		return fmt.Errorf("failed to check participant: %w", err)
	}
	if !known {
		if err := s.participants.Insert(ctx, key.WestonID, ""); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	exists, err := s.collections.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	return s.collections.InsertBasicInfo(ctx, &secondary.BasicInfoRecord{
		Key:            key,
		TimezoneOffset: desc.TZOffset,
		UploadTime:     desc.UploadTime,
	})
}

// analyzeSweep runs the analyzer over every downloaded-but-unanalyzed
// recording.
func (s *PipelineServiceImpl) analyzeSweep(ctx context.Context) (analyzed, quarantined int) {
	paths, err := s.collections.UnprocessedEdfPaths(ctx)
	if err != nil {
		s.logger.Printf("WARN: failed to list unprocessed recordings: %v", err)
		return 0, 0
	}

	for _, edfPath := range paths {
		switch s.analyzeOne(ctx, edfPath) {
		case analyzeOK:
			analyzed++
		case analyzeQuarantined:
			quarantined++
		}
	}
	return analyzed, quarantined
}

type analyzeResult int

const (
	analyzeOK analyzeResult = iota
	analyzeQuarantined
	analyzeSkipped
)

// analyzeOne runs the quality script for one recording, classifies the
// result and persists everything.
func (s *PipelineServiceImpl) analyzeOne(ctx context.Context, edfPath string) analyzeResult {
	key, ok := keyFromLocalName(filepath.Base(edfPath))
	if !ok {
		// Without a key there is no row to flag, leave the file for
		// manual inspection.
		s.logger.Printf("WARN: cannot decode recording identity from %s, skipping", edfPath)
		return analyzeSkipped
	}

	outputs, err := s.runner.Run(ctx, edfPath, s.cfg.OutputDir)
	if err != nil {
		s.logger.Printf("WARN: analyzer failed for %s: %v", key, err)
		s.quarantine(ctx, key, edfPath)
		return analyzeQuarantined
	}

	for _, artifact := range []string{outputs.Jpg, outputs.Csv, outputs.Edf} {
		if !s.files.Exists(artifact) {
			s.logger.Printf("WARN: analyzer left no %s for %s", filepath.Base(artifact), key)
			s.quarantine(ctx, key, edfPath)
			return analyzeQuarantined
		}
	}

	stats, err := quality.ParseStatsFile(outputs.Csv, s.logger)
	if err != nil {
		// The raw recording was analyzable, only the report is bad.
		// Flag the row but leave the file where it is.
		s.logger.Printf("WARN: unusable stats for %s: %v", key, err)
		if err := s.collections.MarkFailed(ctx, key); err != nil {
			s.logger.Printf("WARN: failed to flag %s: %v", key, err)
		}
		return analyzeSkipped
	}

	class := quality.Classify(s.cfg.Policy, stats)

	finalJpg := filepath.Join(s.cfg.JpgDir, filepath.Base(outputs.Jpg))
	if err := s.files.Move(outputs.Jpg, finalJpg); err != nil {
		s.logger.Printf("WARN: failed to store quality jpg for %s: %v", key, err)
		s.quarantine(ctx, key, edfPath)
		return analyzeQuarantined
	}

	err = s.collections.InsertQualityOutputs(ctx, &secondary.QualityOutputsRecord{
		Key:     key,
		Stats:   stats,
		JpgPath: finalJpg,
		Class:   class,
	})
	if err != nil {
		s.logger.Printf("WARN: failed to persist quality outputs for %s: %v", key, err)
		return analyzeSkipped
	}

	if err := s.collections.UpdateEdfPath(ctx, key, ""); err != nil {
		s.logger.Printf("WARN: failed to clear edf path for %s: %v", key, err)
	}

	// Cleanup is best effort, a leftover file never blocks the pipeline.
	for _, leftover := range []string{edfPath, outputs.Csv, outputs.Edf} {
		if err := s.files.Remove(leftover); err != nil {
			s.logger.Printf("WARN: failed to remove %s: %v", leftover, err)
		}
	}
	return analyzeOK
}

// quarantine moves a recording to problem storage and flags its row.
func (s *PipelineServiceImpl) quarantine(ctx context.Context, key recording.Key, edfPath string) {
	dest := filepath.Join(s.cfg.QuarantineDir, filepath.Base(edfPath))
	if err := s.files.Move(edfPath, dest); err != nil {
		s.logger.Printf("WARN: failed to quarantine %s: %v", edfPath, err)
		dest = edfPath
	}
	if err := s.collections.UpdateEdfPath(ctx, key, dest); err != nil {
		s.logger.Printf("WARN: failed to record quarantine path for %s: %v", key, err)
	}
	if err := s.collections.MarkFailed(ctx, key); err != nil {
		s.logger.Printf("WARN: failed to flag %s: %v", key, err)
	}
}

// keyFromLocalName rebuilds a collection key from a local file name written
// by the download step.
func keyFromLocalName(name string) (recording.Key, bool) {
	decoded := filename.DecodeLocal(name)
	base := strings.TrimSuffix(decoded, filepath.Ext(decoded))

	start, ok := filename.StartTime(base)
	if !ok {
		return recording.Key{}, false
	}
	pod, ok := filename.PodID(base)
	if !ok {
		return recording.Key{}, false
	}
	weston, ok := filename.WestonID(base)
	if !ok {
		return recording.Key{}, false
	}
	return recording.NewKey(weston, pod, start), true
}
