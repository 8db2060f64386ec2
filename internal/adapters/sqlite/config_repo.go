package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/museqc/internal/ports/secondary"
)

// lastDownloadKey names the config row holding the upload watermark.
const lastDownloadKey = "last_download_dt"

// ConfigRepository implements secondary.ConfigRepository with SQLite.
type ConfigRepository struct {
	db *sql.DB
}

// NewConfigRepository creates a new SQLite config repository.
func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

var _ secondary.ConfigRepository = (*ConfigRepository)(nil)

// LastDownloadTime returns the upload watermark of the newest downloaded
// object, or ok=false before the first download.
func (r *ConfigRepository) LastDownloadTime(ctx context.Context) (time.Time, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM config_vals WHERE name = ?", lastDownloadKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read last download time: %w", err)
	}

	t, err := time.Parse(dbTimeLayout, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse last download time %q: %w", value, err)
	}
	return t, true, nil
}

// SetLastDownloadTime advances the upload watermark.
func (r *ConfigRepository) SetLastDownloadTime(ctx context.Context, t time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO config_vals (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
		lastDownloadKey, t.Format(dbTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to set last download time: %w", err)
	}
	return nil
}
