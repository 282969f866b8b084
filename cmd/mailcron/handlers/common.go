// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/orchestration"
	awsplatform "github.com/imamik/mailcron/internal/platform/aws"
	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/provisioning/network"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile finds mailcron.yaml in the working directory.
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads and validates the config (for testing injection).
	loadConfigFile = config.Load

	// stageRegistry returns the stage table.
	stageRegistry = config.DefaultRegistry

	// newLiveLookup creates the EC2-backed network lookup.
	newLiveLookup = func(ctx context.Context, cfg *config.Config) (network.Lookup, error) {
		awsCfg, err := awsplatform.LoadConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		clients := awsplatform.NewClients(awsCfg, cfg.AWS.Endpoint)
		return awsplatform.NewEC2Lookup(clients.EC2, cfg.Account, cfg.Region), nil
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout

	// stderr receives log output.
	stderr io.Writer = os.Stderr

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// loadConfig loads the configuration. If configPath is empty, it looks for
// mailcron.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'mailcron init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// selectStages narrows the registry to stage, or keeps every stage when
// stage is empty.
func selectStages(stage string) (*config.Registry, error) {
	reg := stageRegistry()
	if stage == "" {
		return reg, nil
	}
	s, err := config.ParseStage(stage)
	if err != nil {
		return nil, err
	}
	return reg.Select(s)
}

// newObserver logs human-readable lines on a terminal and JSON otherwise.
func newObserver() provisioning.Observer {
	return provisioning.NewConsoleObserver(stderr, !isTerminal())
}

// assemble builds the stage graphs for cfg.
func assemble(ctx context.Context, cfg *config.Config, stage string, observer provisioning.Observer, metrics *provisioning.Metrics) (*orchestration.Result, error) {
	reg, err := selectStages(stage)
	if err != nil {
		return nil, err
	}

	var live network.Lookup
	if !cfg.Network.Cached() {
		live, err = newLiveLookup(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	lookup, source := orchestration.NetworkLookup(cfg, live)

	asm := orchestration.NewAssembler(cfg, reg, lookup,
		orchestration.WithObserver(observer),
		orchestration.WithMetrics(metrics),
		orchestration.WithLookupSource(source),
	)
	return asm.Assemble(ctx)
}
