package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/provisioning/compute"
	"github.com/imamik/mailcron/internal/provisioning/network"
	"github.com/imamik/mailcron/internal/provisioning/schedule"
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/naming"
	"github.com/imamik/mailcron/internal/util/tags"
)

// StageResult is the assembled graph of one stage.
type StageResult struct {
	Stage     config.Stage
	StackName string
	Template  *template.Template
	State     *provisioning.State
	StackTags tags.Set
	Err       error
}

// Result collects the outcome of one assembly run.
type Result struct {
	Stages []*StageResult

	// Lookups is the number of backend network lookups performed.
	Lookups int
}

// Succeeded returns the stages that assembled without error.
func (r *Result) Succeeded() []*StageResult {
	var out []*StageResult
	for _, s := range r.Stages {
		if s.Err == nil {
			out = append(out, s)
		}
	}
	return out
}

// Stage returns the result of stage, or nil if it was not assembled.
func (r *Result) Stage(stage config.Stage) *StageResult {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s
		}
	}
	return nil
}

// Err joins the errors of every failed stage.
func (r *Result) Err() error {
	var errs []error
	for _, s := range r.Stages {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// Assembler builds the deployment graph of every registered stage.
type Assembler struct {
	config   *config.Config
	registry *config.Registry
	lookup   network.Lookup
	source   string
	observer provisioning.Observer
	metrics  *provisioning.Metrics
	phases   func() []provisioning.Phase
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithObserver sets the observer events are reported to.
func WithObserver(o provisioning.Observer) Option {
	return func(a *Assembler) { a.observer = o }
}

// WithMetrics records assembly metrics in m.
func WithMetrics(m *provisioning.Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

// WithLookupSource labels network lookups in metrics.
func WithLookupSource(source string) Option {
	return func(a *Assembler) { a.source = source }
}

// WithPhases replaces the default pipeline.
func WithPhases(phases func() []provisioning.Phase) Option {
	return func(a *Assembler) { a.phases = phases }
}

// NewAssembler creates an assembler for cfg over the stages in registry.
func NewAssembler(cfg *config.Config, registry *config.Registry, lookup network.Lookup, opts ...Option) *Assembler {
	a := &Assembler{
		config:   cfg,
		registry: registry,
		lookup:   lookup,
		source:   "lookup",
		observer: provisioning.NewDiscardObserver(),
		phases:   DefaultPhases,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultPhases returns the stage pipeline in execution order.
func DefaultPhases() []provisioning.Phase {
	return []provisioning.Phase{
		network.NewPhase(),
		compute.NewProvisioner(),
		schedule.NewBinding(),
		provisioning.NewTagPhase(),
	}
}

// Assemble runs the pipeline of every stage. The returned error joins the
// failures of all stages; the result always lists every stage.
func (a *Assembler) Assemble(ctx context.Context) (*Result, error) {
	stages := a.registry.Stages()
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: no stages registered", config.ErrMissingStage)
	}
	if a.lookup == nil {
		return nil, fmt.Errorf("no network lookup configured")
	}

	var shared *network.Provider
	if a.config.Network.Shared {
		shared = a.newProvider()
	}

	result := &Result{}
	var perStage []*network.Provider
	for _, stage := range stages {
		provider := shared
		if provider == nil {
			provider = a.newProvider()
			perStage = append(perStage, provider)
		}
		result.Stages = append(result.Stages, a.assembleStage(ctx, stage, provider))
	}

	if shared != nil {
		result.Lookups = shared.Lookups()
	}
	for _, p := range perStage {
		result.Lookups += p.Lookups()
	}

	return result, result.Err()
}

func (a *Assembler) newProvider() *network.Provider {
	return network.NewProvider(a.lookup,
		network.WithMetrics(a.metrics),
		network.WithSource(a.source),
		network.WithObserver(a.observer),
	)
}

func (a *Assembler) assembleStage(ctx context.Context, stage config.Stage, networks provisioning.NetworkResolver) *StageResult {
	res := &StageResult{
		Stage:     stage,
		StackName: naming.Stack(a.config.StackPrefix, stage.String()),
	}

	sc, err := a.registry.Lookup(stage)
	if err == nil {
		err = sc.Validate()
	}
	if err != nil {
		res.Err = fmt.Errorf("stage %s: %w", stage, err)
		a.metrics.RecordStage(stage.String(), res.Err)
		return res
	}

	pctx := provisioning.NewContext(ctx, a.config, sc, networks, a.observer, a.metrics)
	err = provisioning.NewPipeline(a.phases()...).Run(pctx)
	a.metrics.RecordStage(stage.String(), err)

	res.Template = pctx.Template
	res.State = pctx.State
	res.StackTags = provisioning.StackTags(sc.Tags)
	if err != nil {
		res.Err = fmt.Errorf("stage %s: %w", stage, err)
	}
	return res
}

// NetworkLookup picks the lookup backend for cfg: the handle pinned in the
// config when subnets are cached there, live otherwise. It returns the
// backend and its metrics source label.
func NetworkLookup(cfg *config.Config, live network.Lookup) (network.Lookup, string) {
	if cfg.Network.Cached() {
		return network.StaticLookup{Handle: provisioning.NetworkHandle{
			ID:                cfg.Network.ID,
			VpcID:             cfg.Network.ID,
			SubnetIDs:         cfg.Network.SubnetIDs,
			AvailabilityZones: cfg.Network.AvailabilityZones,
			Account:           cfg.Account,
			Region:            cfg.Region,
		}}, "cache"
	}
	return live, "lookup"
}
