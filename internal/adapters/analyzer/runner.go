// Package analyzer adapts the external signal quality script to the quality
// runner port. The script takes an edf recording and an output directory and
// deposits a quality jpg, a stats text file and a filtered copy of the
// recording, all named from the input's base name.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/example/museqc/internal/ports/secondary"
)

// Runner implements secondary.QualityRunner by invoking the quality script
// through the configured interpreter.
type Runner struct {
	interpreter string
	script      string
	logger      *log.Logger
}

var _ secondary.QualityRunner = (*Runner)(nil)

// NewRunner creates a runner for the given interpreter and script paths.
func NewRunner(interpreter, script string, logger *log.Logger) *Runner {
	return &Runner{interpreter: interpreter, script: script, logger: logger}
}

// Run invokes the quality script on one recording. The script requires the
// output directory argument to end with a path separator.
func (r *Runner) Run(ctx context.Context, edfPath, outputDir string) (*secondary.OutputPaths, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create analyzer output directory: %w", err)
	}

	outputArg := outputDir
	if !strings.HasSuffix(outputArg, string(os.PathSeparator)) {
		outputArg += string(os.PathSeparator)
	}

	cmd := exec.CommandContext(ctx, r.interpreter, r.script, edfPath, outputArg)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		r.logger.Printf("analyzer output for %s:\n%s", filepath.Base(edfPath), out)
	}
	if err != nil {
		return nil, fmt.Errorf("analyzer failed for %s: %w", edfPath, err)
	}

	return ExpectedOutputs(edfPath, outputDir), nil
}

// ExpectedOutputs derives where the script leaves its three artifacts for a
// given input recording.
func ExpectedOutputs(edfPath, outputDir string) *secondary.OutputPaths {
	base := strings.TrimSuffix(filepath.Base(edfPath), filepath.Ext(edfPath))
	return &secondary.OutputPaths{
		Jpg: filepath.Join(outputDir, base+".jpg"),
		Csv: filepath.Join(outputDir, base+".csv"),
		Edf: filepath.Join(outputDir, base+"_filtered.edf"),
	}
}
