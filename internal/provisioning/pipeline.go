package provisioning

import (
	"fmt"
	"time"
)

// Pipeline runs phases in order, stopping at the first failure.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline of the given phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes the pipeline against ctx.
func (p *Pipeline) Run(ctx *Context) error {
	return RunPhases(ctx, p.Phases)
}

// RunPhases executes all provisioning phases sequentially.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Assembling stage with %d phases...", len(phases))

	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s phase not started: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		elapsed := time.Since(phaseStart)
		ctx.Metrics.ObservePhase(phase.Name(), elapsed.Seconds())
		LogPhaseComplete(ctx.Observer, phase.Name(), elapsed)
	}

	ctx.Observer.Printf("Stage assembled in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// PhaseFunc adapts a function to the Phase interface.
type PhaseFunc struct {
	PhaseName string
	Fn        func(*Context) error
}

// Name implements Phase.
func (p PhaseFunc) Name() string { return p.PhaseName }

// Provision implements Phase.
func (p PhaseFunc) Provision(ctx *Context) error { return p.Fn(ctx) }
