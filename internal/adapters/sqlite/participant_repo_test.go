package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/museqc/internal/adapters/sqlite"
)

func TestParticipantRepository_InsertAndExists(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewParticipantRepository(conn)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "ww75958498")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected participant to not exist yet")
	}

	if err := repo.Insert(ctx, "ww75958498", ""); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	exists, err = repo.Exists(ctx, "ww75958498")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected participant to exist after insert")
	}

	if err := repo.Insert(ctx, "ww75958498", ""); err == nil {
		t.Error("expected duplicate insert to fail")
	}
}

func TestParticipantRepository_UpdateSite(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewParticipantRepository(conn)
	ctx := context.Background()

	seedParticipant(t, conn, "ww75958498", "")

	if err := repo.UpdateSite(ctx, "ww75958498", "Cal"); err != nil {
		t.Fatalf("UpdateSite failed: %v", err)
	}

	var site string
	if err := conn.QueryRow("SELECT site FROM participants WHERE weston_id = ?", "ww75958498").Scan(&site); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if site != "Cal" {
		t.Errorf("site = %q, want Cal", site)
	}

	if err := repo.UpdateSite(ctx, "ww99999999", "Cal"); err == nil {
		t.Error("expected error updating unknown participant")
	}
}
