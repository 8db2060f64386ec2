// Package renderer adapts the pdf creation python script to the report
// renderer port.
package renderer

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/example/museqc/internal/ports/secondary"
)

// Renderer implements secondary.ReportRenderer by invoking the pdf script.
type Renderer struct {
	python string
	script string
	logger *log.Logger
}

var _ secondary.ReportRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer for the given python interpreter and script
// paths.
func NewRenderer(python, script string, logger *log.Logger) *Renderer {
	return &Renderer{python: python, script: script, logger: logger}
}

// Render produces a pdf in outputDir from the given csv. A failing script is
// logged but not treated as an error, the csv remains available either way
// and the next report run regenerates the pdf.
func (r *Renderer) Render(ctx context.Context, kind secondary.RenderKind, csvPath, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create pdf output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.python, r.script, string(kind), csvPath, outputDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Printf("WARN: pdf renderer failed for %s (%s): %v\n%s", csvPath, kind, err, out)
	}
	return nil
}
