// Package sqlite contains SQLite implementations of repository interfaces.
//
// The persistence surface descends from a set of MySQL stored procedures.
// Each procedure became one typed repository method:
//
//	collectionBasicInfo_exists      -> CollectionRepository.Exists
//	insert_collectionBasicInfo      -> CollectionRepository.InsertBasicInfo
//	insert_qualityOutputs           -> CollectionRepository.InsertQualityOutputs
//	westonID_exists                 -> ParticipantRepository.Exists
//	insert_westonID                 -> ParticipantRepository.Insert
//	update_site                     -> ParticipantRepository.UpdateSite
//	lastDateTimeDownloaded_exists   -> ConfigRepository.LastDownloadTime (ok result)
//	get_lastDateTimeDownloaded      -> ConfigRepository.LastDownloadTime
//	insert_lastDateTimeDownloaded   -> ConfigRepository.SetLastDownloadTime
//	update_lastDateTimeDownloaded   -> ConfigRepository.SetLastDownloadTime
//	get_qualityReportData           -> ReportRepository.QualityReportRows
//
// Edf path bookkeeping, failure flags, unprocessed/processed listings and
// the status counts had no procedure equivalent and are new here.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/museqc/internal/core/recording"
	"github.com/example/museqc/internal/ports/secondary"
)

// dbTimeLayout is how DATETIME values are stored, chosen so lexical order
// matches chronological order.
const dbTimeLayout = time.DateTime

// CollectionRepository implements secondary.CollectionRepository with SQLite.
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new SQLite collection repository.
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

var _ secondary.CollectionRepository = (*CollectionRepository)(nil)

// Exists checks whether a collection row exists for the key.
func (r *CollectionRepository) Exists(ctx context.Context, key recording.Key) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM collections WHERE weston_id = ? AND pod_id = ? AND start_dt = ?",
		key.WestonID, key.PodID, key.Start,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check collection existence: %w", err)
	}
	return count > 0, nil
}

// InsertBasicInfo persists the parsed header facts for a new collection.
func (r *CollectionRepository) InsertBasicInfo(ctx context.Context, rec *secondary.BasicInfoRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO collections (weston_id, pod_id, start_dt, tz_offset, upload_dt) VALUES (?, ?, ?, ?, ?)",
		rec.Key.WestonID, rec.Key.PodID, rec.Key.Start,
		rec.TimezoneOffset, rec.UploadTime.Format(dbTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert collection %s: %w", rec.Key, err)
	}
	return nil
}

// UpdateEdfPath records where the downloaded edf sits on disk.
func (r *CollectionRepository) UpdateEdfPath(ctx context.Context, key recording.Key, path string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE collections SET edf_path = ? WHERE weston_id = ? AND pod_id = ? AND start_dt = ?",
		path, key.WestonID, key.PodID, key.Start,
	)
	if err != nil {
		return fmt.Errorf("failed to update edf path: %w", err)
	}
	return requireRow(res, key)
}

// InsertQualityOutputs persists analyzer stats, the jpg path and the
// classification for an already registered collection.
func (r *CollectionRepository) InsertQualityOutputs(ctx context.Context, rec *secondary.QualityOutputsRecord) error {
	s := rec.Stats
	res, err := r.db.ExecContext(ctx, `
		UPDATE collections SET
			jpg_path = ?, has_quality = 1,
			dur = ?, ch1 = ?, ch2 = ?, ch3 = ?, ch4 = ?,
			ch12 = ?, ch13 = ?, ch43 = ?, ch42 = ?,
			f_any = ?, f_both = ?, t_any = ?, t_both = ?,
			ft_any = ?, eeg_any = ?, eeg_all = ?,
			is_test = ?, dur_problem = ?, quality_problem = ?, qc_version = ?
		WHERE weston_id = ? AND pod_id = ? AND start_dt = ?`,
		rec.JpgPath,
		s.Dur, s.Ch1, s.Ch2, s.Ch3, s.Ch4,
		s.Ch12, s.Ch13, s.Ch43, s.Ch42,
		s.FAny, s.FBoth, s.TAny, s.TBoth,
		s.FtAny, s.EegAny, s.EegAll,
		rec.Class.IsTest, rec.Class.DurationProblem, rec.Class.QualityProblem, rec.Class.Version,
		rec.Key.WestonID, rec.Key.PodID, rec.Key.Start,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quality outputs for %s: %w", rec.Key, err)
	}
	return requireRow(res, rec.Key)
}

// MarkFailed flags a collection whose processing cannot complete.
func (r *CollectionRepository) MarkFailed(ctx context.Context, key recording.Key) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE collections SET failed = 1 WHERE weston_id = ? AND pod_id = ? AND start_dt = ?",
		key.WestonID, key.PodID, key.Start,
	)
	if err != nil {
		return fmt.Errorf("failed to mark collection failed: %w", err)
	}
	return requireRow(res, key)
}

// UnprocessedEdfPaths lists local edf paths downloaded but not yet analyzed
// and not failed, oldest upload first.
func (r *CollectionRepository) UnprocessedEdfPaths(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT edf_path FROM collections WHERE edf_path != '' AND has_quality = 0 AND failed = 0 ORDER BY upload_dt",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed edf paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan edf path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ProcessedKeys returns every key that needs no further pipeline work.
func (r *CollectionRepository) ProcessedKeys(ctx context.Context) (map[recording.Key]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT weston_id, pod_id, start_dt FROM collections WHERE edf_path != '' OR has_quality = 1 OR failed = 1",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[recording.Key]bool)
	for rows.Next() {
		var key recording.Key
		if err := rows.Scan(&key.WestonID, &key.PodID, &key.Start); err != nil {
			return nil, fmt.Errorf("failed to scan collection key: %w", err)
		}
		keys[key] = true
	}
	return keys, rows.Err()
}

// Counts reports pipeline totals for status output.
func (r *CollectionRepository) Counts(ctx context.Context) (*secondary.CollectionCounts, error) {
	counts := &secondary.CollectionCounts{}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN edf_path != '' AND has_quality = 0 AND failed = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(has_quality), 0),
			COALESCE(SUM(failed), 0)
		FROM collections`,
	).Scan(&counts.Total, &counts.AwaitingEdf, &counts.WithQuality, &counts.Failed)
	if err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}
	return counts, nil
}

func requireRow(res sql.Result, key recording.Key) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("collection %s not found", key)
	}
	return nil
}
