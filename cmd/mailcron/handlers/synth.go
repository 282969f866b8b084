package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/template"
)

// writeFile writes data to a file (for testing injection).
var writeFile = os.WriteFile

// SynthOptions holds the flags of the synth command.
type SynthOptions struct {
	ConfigPath  string
	Stage       string
	OutDir      string
	Format      string
	MetricsFile string
}

// Synth assembles every selected stage and writes one template per stage.
//
// Templates of stages that assembled are written even when another stage
// failed; the failure is still returned so the command exits non-zero.
func Synth(ctx context.Context, opts SynthOptions) error {
	format, err := template.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	observer := newObserver()
	metrics := provisioning.NewMetrics()

	result, assembleErr := assemble(ctx, cfg, opts.Stage, observer, metrics)
	if result == nil {
		return assembleErr
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, st := range result.Succeeded() {
		data, err := template.Render(st.Template, format)
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.Stage, err)
		}
		path := filepath.Join(opts.OutDir, st.StackName+".template."+format.Extension())
		if err := writeFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "%s: %s (%d resources)\n", st.Stage, path, len(st.Template.Resources))
	}

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			return err
		}
	}

	return assembleErr
}
