// Package config loads the pipeline configuration from a json file with
// environment variable overrides. A .env file in the working directory is
// honored, which keeps the roster credentials out of the config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default batch bounds used when the config and CLI leave them unset.
const (
	DefaultMaxPerBatch = 20
	DefaultMaxTotal    = 100
)

// Config is the full pipeline configuration.
type Config struct {
	// DBPath locates the sqlite database file.
	DBPath string `json:"db_path"`
	// BucketRoots are the gs://bucket/prefix locations scanned for new
	// recordings, one per collection site feed.
	BucketRoots []string `json:"bucket_roots"`
	// EdfDir holds downloaded recordings awaiting analysis.
	EdfDir string `json:"edf_dir"`
	// OutputDir receives the analyzer's raw artifacts.
	OutputDir string `json:"output_dir"`
	// JpgDir is the permanent home of quality jpgs.
	JpgDir string `json:"jpg_dir"`
	// QuarantineDir receives recordings the analyzer could not process.
	QuarantineDir string `json:"quarantine_dir"`
	// ReportDir is the root for report output folders.
	ReportDir string `json:"report_dir"`

	// PythonPath is the interpreter used for the analyzer and pdf scripts.
	PythonPath string `json:"python_path"`
	// QualityScript is the signal quality analyzer script.
	QualityScript string `json:"quality_script"`
	// RenderScript is the pdf creation script.
	RenderScript string `json:"render_script"`

	// SiteLookupCSV is the participant site lookup table location.
	SiteLookupCSV string `json:"site_lookup_csv"`
	// RosterURL is the roster service endpoint that refreshes the lookup
	// table. Empty disables the refresh.
	RosterURL string `json:"roster_url"`
	// RosterCredentials is the user:password pair for the roster service.
	// Prefer setting it through MUSEQC_ROSTER_CREDENTIALS.
	RosterCredentials string `json:"roster_credentials"`

	// DecisionPolicy selects the quality threshold version: v1, v2 or
	// combined.
	DecisionPolicy string `json:"decision_policy"`
	// RequiredIDPrefix filters discovered files to one participant ID
	// prefix, normally "ww".
	RequiredIDPrefix string `json:"required_id_prefix"`
	// MinSizeBytes drops objects too small to be a real recording. Zero
	// disables the filter.
	MinSizeBytes int64 `json:"min_size_bytes"`

	// MaxPerBatch caps downloads per batch, MaxTotal per pipeline run.
	MaxPerBatch int `json:"max_per_batch"`
	MaxTotal    int `json:"max_total"`
}

// Load reads the config file at path and applies environment overrides.
// A missing file is fine when the environment provides everything.
func Load(path string) (*Config, error) {
	// Pull a .env file into the environment if present.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:           "museqc.db",
		DecisionPolicy:   "v1",
		RequiredIDPrefix: "ww",
		MaxPerBatch:      DefaultMaxPerBatch,
		MaxTotal:         DefaultMaxTotal,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("MUSEQC_DB_PATH", &cfg.DBPath)
	setString("MUSEQC_EDF_DIR", &cfg.EdfDir)
	setString("MUSEQC_OUTPUT_DIR", &cfg.OutputDir)
	setString("MUSEQC_JPG_DIR", &cfg.JpgDir)
	setString("MUSEQC_QUARANTINE_DIR", &cfg.QuarantineDir)
	setString("MUSEQC_REPORT_DIR", &cfg.ReportDir)
	setString("MUSEQC_PYTHON_PATH", &cfg.PythonPath)
	setString("MUSEQC_QUALITY_SCRIPT", &cfg.QualityScript)
	setString("MUSEQC_RENDER_SCRIPT", &cfg.RenderScript)
	setString("MUSEQC_SITE_LOOKUP_CSV", &cfg.SiteLookupCSV)
	setString("MUSEQC_ROSTER_URL", &cfg.RosterURL)
	setString("MUSEQC_ROSTER_CREDENTIALS", &cfg.RosterCredentials)
	setString("MUSEQC_DECISION_POLICY", &cfg.DecisionPolicy)

	if v := os.Getenv("MUSEQC_BUCKET_ROOTS"); v != "" {
		var roots []string
		for _, root := range strings.Split(v, ",") {
			if root = strings.TrimSpace(root); root != "" {
				roots = append(roots, root)
			}
		}
		cfg.BucketRoots = roots
	}
	if v := os.Getenv("MUSEQC_MIN_SIZE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MinSizeBytes = n
		}
	}
}

// Validate checks that everything the pipeline pass needs is present.
// Report-only invocations get away with less, so the CLI validates per
// command.
func (c *Config) Validate() error {
	if len(c.BucketRoots) == 0 {
		return fmt.Errorf("config: at least one bucket root is required")
	}
	for _, dir := range []struct{ name, val string }{
		{"edf_dir", c.EdfDir},
		{"output_dir", c.OutputDir},
		{"jpg_dir", c.JpgDir},
		{"quarantine_dir", c.QuarantineDir},
	} {
		if dir.val == "" {
			return fmt.Errorf("config: %s is required", dir.name)
		}
	}
	if c.PythonPath == "" || c.QualityScript == "" {
		return fmt.Errorf("config: python_path and quality_script are required")
	}
	return nil
}

// ValidateReports checks the settings the report pass needs.
func (c *Config) ValidateReports() error {
	if c.ReportDir == "" {
		return fmt.Errorf("config: report_dir is required")
	}
	if c.SiteLookupCSV == "" {
		return fmt.Errorf("config: site_lookup_csv is required")
	}
	if c.PythonPath == "" || c.RenderScript == "" {
		return fmt.Errorf("config: python_path and render_script are required")
	}
	return nil
}
