package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/mailcron/internal/config"
)

func phaseFunc(name string, fn func(*Context) error) Phase {
	return PhaseFunc{PhaseName: name, Fn: fn}
}

func TestNewPipeline(t *testing.T) {
	t.Parallel()
	pipeline := NewPipeline(phaseFunc("network", nil), phaseFunc("compute", nil))

	require.NotNil(t, pipeline)
	assert.Len(t, pipeline.Phases, 2)
	assert.Equal(t, "network", pipeline.Phases[0].Name())
}

func TestPipeline_Run_Success(t *testing.T) {
	t.Parallel()
	ctx, obs := newTestContext(t, config.StageStaging)
	var executed []string

	pipeline := NewPipeline(
		phaseFunc("network", func(_ *Context) error { executed = append(executed, "network"); return nil }),
		phaseFunc("compute", func(_ *Context) error { executed = append(executed, "compute"); return nil }),
		phaseFunc("schedule", func(_ *Context) error { executed = append(executed, "schedule"); return nil }),
	)

	require.NoError(t, pipeline.Run(ctx))
	assert.Equal(t, []string{"network", "compute", "schedule"}, executed)
	assert.Len(t, obs.eventsOfType(EventPhaseStarted), 3)
	assert.Len(t, obs.eventsOfType(EventPhaseCompleted), 3)
}

func TestPipeline_Run_StopsOnError(t *testing.T) {
	t.Parallel()
	ctx, obs := newTestContext(t, config.StageStaging)
	var executed []string

	pipeline := NewPipeline(
		phaseFunc("network", func(_ *Context) error { executed = append(executed, "network"); return nil }),
		phaseFunc("compute", func(_ *Context) error { return errors.New("role rejected") }),
		phaseFunc("schedule", func(_ *Context) error { executed = append(executed, "schedule"); return nil }),
	)

	err := pipeline.Run(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compute phase failed")
	assert.Contains(t, err.Error(), "role rejected")
	assert.Equal(t, []string{"network"}, executed)
	assert.Len(t, obs.eventsOfType(EventPhaseFailed), 1)
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext(t, config.StageStaging)
	cancelled, cancel := context.WithCancel(ctx.Context)
	cancel()
	ctx.Context = cancelled

	called := false
	err := NewPipeline(phaseFunc("network", func(_ *Context) error { called = true; return nil })).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestContext_Declare(t *testing.T) {
	t.Parallel()
	ctx, obs := newTestContext(t, config.StageProduction)

	assert.Equal(t, "production", ctx.StageName())
	assert.Equal(t, "production", obs.fields["stage"])

	require.NoError(t, ctx.Declare("compute", "Role", newRole()))
	assert.Error(t, ctx.Declare("compute", "Role", newRole()))
	assert.Len(t, obs.eventsOfType(EventResourceDeclared), 1)
}
