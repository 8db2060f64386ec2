package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/museqc/internal/adapters/sqlite"
	"github.com/example/museqc/internal/core/quality"
	"github.com/example/museqc/internal/ports/secondary"
)

func TestCollectionRepository_InsertBasicInfo(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewCollectionRepository(conn)
	ctx := context.Background()

	key := testKey("ww75958498", time.Date(2023, 6, 18, 0, 31, 31, 0, time.UTC))
	seedParticipant(t, conn, key.WestonID, "")

	rec := &secondary.BasicInfoRecord{
		Key:            key,
		TimezoneOffset: -4,
		UploadTime:     time.Date(2023, 6, 18, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.InsertBasicInfo(ctx, rec); err != nil {
		t.Fatalf("InsertBasicInfo failed: %v", err)
	}

	exists, err := repo.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected collection to exist after insert")
	}

	// The natural key is the primary key, duplicate registration must fail.
	if err := repo.InsertBasicInfo(ctx, rec); err == nil {
		t.Error("expected duplicate insert to fail")
	}
}

func TestCollectionRepository_ExistsMissing(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewCollectionRepository(conn)

	exists, err := repo.Exists(context.Background(), testKey("ww00000000", time.Now()))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected missing collection to not exist")
	}
}

func TestCollectionRepository_UpdateEdfPath(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewCollectionRepository(conn)
	ctx := context.Background()

	key := testKey("ww75958498", time.Date(2023, 6, 18, 0, 31, 31, 0, time.UTC))
	seedParticipant(t, conn, key.WestonID, "")
	seedCollection(t, conn, key, time.Date(2023, 6, 18, 12, 0, 0, 0, time.UTC))

	if err := repo.UpdateEdfPath(ctx, key, "/data/edf/a.edf"); err != nil {
		t.Fatalf("UpdateEdfPath failed: %v", err)
	}

	paths, err := repo.UnprocessedEdfPaths(ctx)
	if err != nil {
		t.Fatalf("UnprocessedEdfPaths failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != "/data/edf/a.edf" {
		t.Errorf("UnprocessedEdfPaths = %v, want [/data/edf/a.edf]", paths)
	}

	// Clearing the path removes it from the unprocessed list.
	if err := repo.UpdateEdfPath(ctx, key, ""); err != nil {
		t.Fatalf("UpdateEdfPath clear failed: %v", err)
	}
	paths, err = repo.UnprocessedEdfPaths(ctx)
	if err != nil {
		t.Fatalf("UnprocessedEdfPaths failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no unprocessed paths, got %v", paths)
	}

	if err := repo.UpdateEdfPath(ctx, testKey("ww99999999", time.Now()), "/x"); err == nil {
		t.Error("expected error updating unknown collection")
	}
}

func TestCollectionRepository_UnprocessedOrderedByUpload(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewCollectionRepository(conn)
	ctx := context.Background()

	seedParticipant(t, conn, "ww75958498", "")
	newer := testKey("ww75958498", time.Date(2023, 6, 20, 1, 0, 0, 0, time.UTC))
	older := testKey("ww75958498", time.Date(2023, 6, 18, 1, 0, 0, 0, time.UTC))
	seedCollection(t, conn, newer, time.Date(2023, 6, 21, 0, 0, 0, 0, time.UTC))
	seedCollection(t, conn, older, time.Date(2023, 6, 19, 0, 0, 0, 0, time.UTC))

	if err := repo.UpdateEdfPath(ctx, newer, "/data/edf/newer.edf"); err != nil {
		t.Fatalf("UpdateEdfPath failed: %v", err)
	}
	if err := repo.UpdateEdfPath(ctx, older, "/data/edf/older.edf"); err != nil {
		t.Fatalf("UpdateEdfPath failed: %v", err)
	}

	paths, err := repo.UnprocessedEdfPaths(ctx)
	if err != nil {
		t.Fatalf("UnprocessedEdfPaths failed: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/data/edf/older.edf" {
		t.Errorf("expected oldest upload first, got %v", paths)
	}
}

func TestCollectionRepository_InsertQualityOutputs(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewCollectionRepository(conn)
	ctx := context.Background()

	key := testKey("ww75958498", time.Date(2023, 6, 18, 0, 31, 31, 0, time.UTC))
	seedParticipant(t, conn, key.WestonID, "Cal")
	seedCollection(t, conn, key, time.Date(2023, 6, 18, 12, 0, 0, 0, time.UTC))

	rec := &secondary.QualityOutputsRecord{
		Key: key,
		Stats: &quality.QCStats{
			Dur: 7.25, Ch1: 0.9, FtAny: 0.85, FAny: 0.88, TAny: 0.86,
		},
		JpgPath: "/jpg/a.jpg",
		Class:   quality.Classification{Version: 1},
	}
	if err := repo.InsertQualityOutputs(ctx, rec); err != nil {
		t.Fatalf("InsertQualityOutputs failed: %v", err)
	}

	var hasQuality, isTest int
	var dur float64
	err := conn.QueryRow(
		"SELECT has_quality, is_test, dur FROM collections WHERE weston_id = ? AND pod_id = ? AND start_dt = ?",
		key.WestonID, key.PodID, key.Start,
	).Scan(&hasQuality, &isTest, &dur)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if hasQuality != 1 || isTest != 0 || dur != 7.25 {
		t.Errorf("got has_quality=%d is_test=%d dur=%v", hasQuality, isTest, dur)
	}

	if err := repo.InsertQualityOutputs(ctx, &secondary.QualityOutputsRecord{
		Key:   testKey("ww99999999", time.Now()),
		Stats: &quality.QCStats{},
	}); err == nil {
		t.Error("expected error for unknown collection")
	}
}

func TestCollectionRepository_ProcessedKeys(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewCollectionRepository(conn)
	ctx := context.Background()

	seedParticipant(t, conn, "ww75958498", "")
	registered := testKey("ww75958498", time.Date(2023, 6, 18, 1, 0, 0, 0, time.UTC))
	downloaded := testKey("ww75958498", time.Date(2023, 6, 19, 1, 0, 0, 0, time.UTC))
	failed := testKey("ww75958498", time.Date(2023, 6, 20, 1, 0, 0, 0, time.UTC))
	seedCollection(t, conn, registered, time.Now().UTC())
	seedCollection(t, conn, downloaded, time.Now().UTC())
	seedCollection(t, conn, failed, time.Now().UTC())

	if err := repo.UpdateEdfPath(ctx, downloaded, "/data/edf/d.edf"); err != nil {
		t.Fatalf("UpdateEdfPath failed: %v", err)
	}
	if err := repo.MarkFailed(ctx, failed); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	keys, err := repo.ProcessedKeys(ctx)
	if err != nil {
		t.Fatalf("ProcessedKeys failed: %v", err)
	}
	// A registered but not yet downloaded collection still needs work.
	if keys[registered] {
		t.Error("registered-only collection should not be processed")
	}
	if !keys[downloaded] || !keys[failed] {
		t.Errorf("expected downloaded and failed keys processed, got %v", keys)
	}
}

func TestCollectionRepository_Counts(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewCollectionRepository(conn)
	ctx := context.Background()

	seedParticipant(t, conn, "ww75958498", "")
	a := testKey("ww75958498", time.Date(2023, 6, 18, 1, 0, 0, 0, time.UTC))
	b := testKey("ww75958498", time.Date(2023, 6, 19, 1, 0, 0, 0, time.UTC))
	seedCollection(t, conn, a, time.Now().UTC())
	seedCollection(t, conn, b, time.Now().UTC())

	if err := repo.UpdateEdfPath(ctx, a, "/data/edf/a.edf"); err != nil {
		t.Fatalf("UpdateEdfPath failed: %v", err)
	}
	if err := repo.MarkFailed(ctx, b); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Total != 2 || counts.AwaitingEdf != 1 || counts.WithQuality != 0 || counts.Failed != 1 {
		t.Errorf("Counts = %+v", *counts)
	}
}
