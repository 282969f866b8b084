package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive form.
	runWizard = wizard.Run

	// writeConfig writes the config to a file.
	writeConfig = config.WriteFile
)

// InitOptions holds the flags of the init command.
type InitOptions struct {
	OutputPath  string
	Force       bool
	Interactive bool
}

// Init writes a starter configuration, optionally filled in through the
// interactive wizard.
func Init(ctx context.Context, opts InitOptions) error {
	if fileExists(opts.OutputPath) && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", opts.OutputPath)
	}

	cfg := config.Starter()
	if opts.Interactive {
		if err := runWizard(ctx, cfg); err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
	}

	if err := writeConfig(cfg, opts.OutputPath, opts.Force); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(opts.OutputPath, cfg)
	return nil
}

// printInitSuccess prints the success message with next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintf(stdout, "  File:    %s\n", outputPath)
	fmt.Fprintf(stdout, "  Network: %s\n", cfg.Network.ID)
	fmt.Fprintf(stdout, "  Worker:  s3://%s/%s\n", cfg.Worker.CodeBucket, cfg.Worker.CodeKey)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Next steps:")
	fmt.Fprintln(stdout, "  1. Review the values in the file")
	fmt.Fprintln(stdout, "  2. Run 'mailcron synth' to render the stage templates")
	fmt.Fprintln(stdout, "  3. Run 'mailcron deploy' to hand them to CloudFormation")
}
