// Package report groups persisted recording outcomes by participant, site
// and month, and renders the summary and in-depth CSV tables.
package report

import (
	"strings"
	"time"

	"github.com/example/museqc/internal/core/quality"
)

// Row is one persisted recording outcome annotated for reporting.
type Row struct {
	WestonID   string
	Site       string
	StartTime  time.Time
	UploadTime time.Time
	JpgPath    string
	Duration   float64
	FtAny      float64
	FAny       float64
	TAny       float64
}

// DurationProblem reports whether the collection fell short of a good night.
func (r Row) DurationProblem() bool {
	return r.Duration < quality.GoodNightHours
}

// QualityProblem reports whether the combined frontal/temporal signal was
// below threshold.
func (r Row) QualityProblem() bool {
	return r.FtAny < quality.FtAnyThreshold
}

// FrontalProblem reports a frontal-contact signal problem.
func (r Row) FrontalProblem() bool {
	return r.FAny < quality.FtAnyThreshold
}

// TemporalProblem reports a temporal-contact signal problem.
func (r Row) TemporalProblem() bool {
	return r.TAny < quality.FtAnyThreshold
}

// Good reports whether the recording had neither a duration nor a quality
// problem.
func (r Row) Good() bool {
	return !r.DurationProblem() && !r.QualityProblem()
}

// ProblemsString renders the per-recording problem flags for the in-depth
// listing, e.g. "Dur,Front,".
func (r Row) ProblemsString() string {
	var b strings.Builder
	if r.DurationProblem() {
		b.WriteString("Dur,")
	}
	if r.FrontalProblem() {
		b.WriteString("Front,")
	}
	if r.TemporalProblem() {
		b.WriteString("Temp,")
	}
	return b.String()
}
