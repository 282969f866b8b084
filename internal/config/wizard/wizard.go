package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/mailcron/internal/config"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Target
	Account string
	Region  string

	// Network
	NetworkID     string
	SharedNetwork bool

	// Worker
	ParameterName string
	CodeBucket    string
	CodeKey       string
	Architecture  string
	MemorySize    int
}

// NewResult pre-fills the answers from cfg.
func NewResult(cfg *config.Config) *Result {
	return &Result{
		Account:       cfg.Account,
		Region:        cfg.Region,
		NetworkID:     cfg.Network.ID,
		SharedNetwork: cfg.Network.Shared,
		ParameterName: cfg.ParameterName,
		CodeBucket:    cfg.Worker.CodeBucket,
		CodeKey:       cfg.Worker.CodeKey,
		Architecture:  cfg.Worker.Architecture,
		MemorySize:    cfg.Worker.MemorySize,
	}
}

// Apply writes the answers into cfg.
func (r *Result) Apply(cfg *config.Config) {
	cfg.Account = r.Account
	cfg.Region = r.Region
	cfg.Network.ID = r.NetworkID
	cfg.Network.Shared = r.SharedNetwork
	cfg.ParameterName = r.ParameterName
	cfg.Worker.CodeBucket = r.CodeBucket
	cfg.Worker.CodeKey = r.CodeKey
	cfg.Worker.Architecture = r.Architecture
	cfg.Worker.MemorySize = r.MemorySize
}

// Run asks for the deployment inputs, starting from the values in cfg, and
// applies the answers to cfg. The context is used for cancellation support
// (e.g., Ctrl+C).
func Run(ctx context.Context, cfg *config.Config) error {
	result := NewResult(cfg)

	if err := runTargetGroup(ctx, result); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if err := runNetworkGroup(ctx, result); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := runWorkerGroup(ctx, result); err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	result.Apply(cfg)
	return nil
}
