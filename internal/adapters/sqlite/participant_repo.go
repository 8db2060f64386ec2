package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/museqc/internal/ports/secondary"
)

// ParticipantRepository implements secondary.ParticipantRepository with SQLite.
type ParticipantRepository struct {
	db *sql.DB
}

// NewParticipantRepository creates a new SQLite participant repository.
func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

var _ secondary.ParticipantRepository = (*ParticipantRepository)(nil)

// Exists checks whether a participant row exists for the weston ID.
func (r *ParticipantRepository) Exists(ctx context.Context, westonID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participants WHERE weston_id = ?", westonID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check participant existence: %w", err)
	}
	return count > 0, nil
}

// Insert creates a participant. Site may be empty when unknown.
func (r *ParticipantRepository) Insert(ctx context.Context, westonID, site string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO participants (weston_id, site) VALUES (?, ?)", westonID, site,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant %s: %w", westonID, err)
	}
	return nil
}

// UpdateSite sets the participant's collection site.
func (r *ParticipantRepository) UpdateSite(ctx context.Context, westonID, site string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE participants SET site = ? WHERE weston_id = ?", site, westonID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant site: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("participant %s not found", westonID)
	}
	return nil
}
