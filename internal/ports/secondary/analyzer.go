package secondary

import "context"

// OutputPaths are the three artifacts one analyzer run is expected to leave
// behind.
type OutputPaths struct {
	Jpg string
	Csv string
	Edf string
}

// QualityRunner defines the secondary port for the signal quality analyzer.
type QualityRunner interface {
	// Run analyzes one edf recording and returns the paths the artifacts
	// should appear at. Callers must verify the files actually exist, the
	// analyzer reports success even when it produced nothing.
	Run(ctx context.Context, edfPath, outputDir string) (*OutputPaths, error)
}
