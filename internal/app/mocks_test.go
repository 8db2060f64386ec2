package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/museqc/internal/core/recording"
	"github.com/example/museqc/internal/core/report"
	"github.com/example/museqc/internal/ports/secondary"
)

// Ensure the mocks implement the secondary ports
var _ secondary.CollectionRepository = (*mockCollectionRepo)(nil)
var _ secondary.ParticipantRepository = (*mockParticipantRepo)(nil)
var _ secondary.ConfigRepository = (*mockConfigRepo)(nil)
var _ secondary.ObjectStore = (*mockObjectStore)(nil)
var _ secondary.QualityRunner = (*mockRunner)(nil)
var _ secondary.LocalFiles = (*mockFiles)(nil)
var _ secondary.ReportRepository = (*mockReportRepo)(nil)
var _ secondary.RosterClient = (*mockRosterClient)(nil)
var _ secondary.ReportRenderer = (*mockRenderer)(nil)

// collectionRow mirrors what the sqlite adapter would hold for one key.
type collectionRow struct {
	edfPath    string
	failed     bool
	hasQuality bool
	jpgPath    string
}

// mockCollectionRepo implements secondary.CollectionRepository for testing.
type mockCollectionRepo struct {
	rows map[recording.Key]*collectionRow

	insertErr  error
	pathErr    error
	qualityErr error
	failErr    error
	listErr    error
	keysErr    error
}

func newMockCollectionRepo() *mockCollectionRepo {
	return &mockCollectionRepo{rows: make(map[recording.Key]*collectionRow)}
}

func (m *mockCollectionRepo) Exists(ctx context.Context, key recording.Key) (bool, error) {
	_, ok := m.rows[key]
	return ok, nil
}

func (m *mockCollectionRepo) InsertBasicInfo(ctx context.Context, rec *secondary.BasicInfoRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.rows[rec.Key]; ok {
		return fmt.Errorf("collection already exists: %s", rec.Key)
	}
	m.rows[rec.Key] = &collectionRow{}
	return nil
}

func (m *mockCollectionRepo) UpdateEdfPath(ctx context.Context, key recording.Key, path string) error {
	if m.pathErr != nil {
		return m.pathErr
	}
	row, ok := m.rows[key]
	if !ok {
		return fmt.Errorf("collection not found: %s", key)
	}
	row.edfPath = path
	return nil
}

func (m *mockCollectionRepo) InsertQualityOutputs(ctx context.Context, rec *secondary.QualityOutputsRecord) error {
	if m.qualityErr != nil {
		return m.qualityErr
	}
	row, ok := m.rows[rec.Key]
	if !ok {
		return fmt.Errorf("collection not found: %s", rec.Key)
	}
	row.hasQuality = true
	row.jpgPath = rec.JpgPath
	return nil
}

func (m *mockCollectionRepo) MarkFailed(ctx context.Context, key recording.Key) error {
	if m.failErr != nil {
		return m.failErr
	}
	row, ok := m.rows[key]
	if !ok {
		return fmt.Errorf("collection not found: %s", key)
	}
	row.failed = true
	return nil
}

func (m *mockCollectionRepo) UnprocessedEdfPaths(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var paths []string
	for _, row := range m.rows {
		if row.edfPath != "" && !row.failed && !row.hasQuality {
			paths = append(paths, row.edfPath)
		}
	}
	return paths, nil
}

func (m *mockCollectionRepo) ProcessedKeys(ctx context.Context) (map[recording.Key]bool, error) {
	if m.keysErr != nil {
		return nil, m.keysErr
	}
	keys := make(map[recording.Key]bool)
	for key, row := range m.rows {
		if row.edfPath != "" || row.failed || row.hasQuality {
			keys[key] = true
		}
	}
	return keys, nil
}

func (m *mockCollectionRepo) Counts(ctx context.Context) (*secondary.CollectionCounts, error) {
	counts := &secondary.CollectionCounts{Total: len(m.rows)}
	for _, row := range m.rows {
		switch {
		case row.failed:
			counts.Failed++
		case row.hasQuality:
			counts.WithQuality++
		case row.edfPath == "":
			counts.AwaitingEdf++
		}
	}
	return counts, nil
}

// mockParticipantRepo implements secondary.ParticipantRepository for testing.
type mockParticipantRepo struct {
	sites map[string]string

	insertErr error
	siteErr   error
}

func newMockParticipantRepo() *mockParticipantRepo {
	return &mockParticipantRepo{sites: make(map[string]string)}
}

func (m *mockParticipantRepo) Exists(ctx context.Context, westonID string) (bool, error) {
	_, ok := m.sites[westonID]
	return ok, nil
}

func (m *mockParticipantRepo) Insert(ctx context.Context, westonID, site string) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.sites[westonID] = site
	return nil
}

func (m *mockParticipantRepo) UpdateSite(ctx context.Context, westonID, site string) error {
	if m.siteErr != nil {
		return m.siteErr
	}
	if _, ok := m.sites[westonID]; !ok {
		return fmt.Errorf("participant not found: %s", westonID)
	}
	m.sites[westonID] = site
	return nil
}

// mockConfigRepo implements secondary.ConfigRepository for testing.
type mockConfigRepo struct {
	last    time.Time
	hasLast bool
	setErr  error
}

func (m *mockConfigRepo) LastDownloadTime(ctx context.Context) (time.Time, bool, error) {
	return m.last, m.hasLast, nil
}

func (m *mockConfigRepo) SetLastDownloadTime(ctx context.Context, t time.Time) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.last = t
	m.hasLast = true
	return nil
}

// mockObjectStore implements secondary.ObjectStore for testing. Downloads
// write real files so the analyzer path can run against disk.
type mockObjectStore struct {
	objects map[string][]secondary.StoredObject

	listErr     error
	downloadErr error
	downloaded  []string
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{objects: make(map[string][]secondary.StoredObject)}
}

func (m *mockObjectStore) List(ctx context.Context, root string) ([]secondary.StoredObject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.objects[root], nil
}

func (m *mockObjectStore) Download(ctx context.Context, root, objectPath, destPath string) error {
	if m.downloadErr != nil {
		return m.downloadErr
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(destPath, []byte("edf"), 0o644); err != nil {
		return err
	}
	m.downloaded = append(m.downloaded, root+"|"+objectPath)
	return nil
}

// validStatsFile is a complete analyzer stats file describing a good night.
const validStatsFile = `muse_qc stats v3
7.5
ch1 0.91
ch2 0.92
ch3 0.93
ch4 0.94
ch12 0.90
ch13 0.89
ch43 0.88
ch42 0.87
fany 0.95
fboth 0.85
tany 0.93
tboth 0.83
ftany 0.92
eegany 0.96
eegall 0.81
`

// mockRunner implements secondary.QualityRunner for testing. It writes the
// three artifacts to outputDir the way the real script would.
type mockRunner struct {
	runErr  error
	stats   string
	skipJpg bool
	runs    int
}

func newMockRunner() *mockRunner {
	return &mockRunner{stats: validStatsFile}
}

func (m *mockRunner) Run(ctx context.Context, edfPath, outputDir string) (*secondary.OutputPaths, error) {
	m.runs++
	if m.runErr != nil {
		return nil, m.runErr
	}
	base := strings.TrimSuffix(filepath.Base(edfPath), filepath.Ext(edfPath))
	outputs := &secondary.OutputPaths{
		Jpg: filepath.Join(outputDir, base+".jpg"),
		Csv: filepath.Join(outputDir, base+".csv"),
		Edf: filepath.Join(outputDir, base+"_filtered.edf"),
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	if !m.skipJpg {
		if err := os.WriteFile(outputs.Jpg, []byte("jpg"), 0o644); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(outputs.Csv, []byte(m.stats), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(outputs.Edf, []byte("filtered"), 0o644); err != nil {
		return nil, err
	}
	return outputs, nil
}

// mockFiles implements secondary.LocalFiles over the real filesystem so the
// services under test exercise actual artifact files in temp dirs.
type mockFiles struct {
	moveErr error
}

func (m *mockFiles) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (m *mockFiles) EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (m *mockFiles) Move(src, dst string) error {
	if m.moveErr != nil {
		return m.moveErr
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

func (m *mockFiles) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// mockReportRepo implements secondary.ReportRepository for testing.
type mockReportRepo struct {
	rows    []report.Row
	rowsErr error
}

func (m *mockReportRepo) QualityReportRows(ctx context.Context) ([]report.Row, error) {
	if m.rowsErr != nil {
		return nil, m.rowsErr
	}
	return m.rows, nil
}

// mockRosterClient implements secondary.RosterClient for testing.
type mockRosterClient struct {
	lookupCSV   string
	downloadErr error
	calls       int
}

func (m *mockRosterClient) DownloadSiteLookup(ctx context.Context, destPath string) error {
	m.calls++
	if m.downloadErr != nil {
		return m.downloadErr
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte(m.lookupCSV), 0o644)
}

// mockRenderer implements secondary.ReportRenderer for testing.
type mockRenderer struct {
	renderErr error
	rendered  []string
}

func (m *mockRenderer) Render(ctx context.Context, kind secondary.RenderKind, csvPath, outputDir string) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	m.rendered = append(m.rendered, string(kind)+":"+csvPath)
	return nil
}
