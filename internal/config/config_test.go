package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "museqc.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "museqc.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.DecisionPolicy != "v1" || cfg.RequiredIDPrefix != "ww" {
		t.Errorf("defaults = %q, %q", cfg.DecisionPolicy, cfg.RequiredIDPrefix)
	}
	if cfg.MaxPerBatch != DefaultMaxPerBatch || cfg.MaxTotal != DefaultMaxTotal {
		t.Errorf("batch bounds = %d, %d", cfg.MaxPerBatch, cfg.MaxTotal)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"db_path": "/var/lib/museqc/museqc.db",
		"bucket_roots": ["gs://muse-uploads/fup3"],
		"edf_dir": "/data/edf",
		"max_per_batch": 5
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/var/lib/museqc/museqc.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if len(cfg.BucketRoots) != 1 || cfg.BucketRoots[0] != "gs://muse-uploads/fup3" {
		t.Errorf("BucketRoots = %v", cfg.BucketRoots)
	}
	if cfg.MaxPerBatch != 5 {
		t.Errorf("MaxPerBatch = %d", cfg.MaxPerBatch)
	}
	// Untouched fields keep their defaults.
	if cfg.MaxTotal != DefaultMaxTotal {
		t.Errorf("MaxTotal = %d", cfg.MaxTotal)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `{"db_path": "/from/file.db"}`)

	t.Setenv("MUSEQC_DB_PATH", "/from/env.db")
	t.Setenv("MUSEQC_BUCKET_ROOTS", "gs://a/one, gs://b/two")
	t.Setenv("MUSEQC_MIN_SIZE_BYTES", "4096")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/from/env.db" {
		t.Errorf("DBPath = %q, env should win", cfg.DBPath)
	}
	if len(cfg.BucketRoots) != 2 || cfg.BucketRoots[1] != "gs://b/two" {
		t.Errorf("BucketRoots = %v", cfg.BucketRoots)
	}
	if cfg.MinSizeBytes != 4096 {
		t.Errorf("MinSizeBytes = %d", cfg.MinSizeBytes)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		BucketRoots:   []string{"gs://muse-uploads"},
		EdfDir:        "/data/edf",
		OutputDir:     "/data/out",
		JpgDir:        "/data/jpg",
		QuarantineDir: "/data/quarantine",
		PythonPath:    "/usr/bin/python3",
		QualityScript: "/opt/museqc/quality.py",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	missing := *cfg
	missing.BucketRoots = nil
	if err := missing.Validate(); err == nil {
		t.Error("expected error without bucket roots")
	}

	noScript := *cfg
	noScript.QualityScript = ""
	if err := noScript.Validate(); err == nil {
		t.Error("expected error without quality script")
	}
}

func TestValidateReports(t *testing.T) {
	cfg := &Config{
		ReportDir:     "/data/reports",
		SiteLookupCSV: "/data/sites.csv",
		PythonPath:    "/usr/bin/python3",
		RenderScript:  "/opt/museqc/pdf.py",
	}
	if err := cfg.ValidateReports(); err != nil {
		t.Errorf("ValidateReports failed: %v", err)
	}

	cfg.ReportDir = ""
	if err := cfg.ValidateReports(); err == nil {
		t.Error("expected error without report dir")
	}
}
