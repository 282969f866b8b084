package provisioning

import (
	"context"
	"fmt"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/template"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	Stage    config.StageConfig
	Networks NetworkResolver
	Template *template.Template
	State    *State
	Observer Observer
	Metrics  *Metrics
}

// NewContext creates the provisioning context of one stage pipeline.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	stage config.StageConfig,
	networks NetworkResolver,
	observer Observer,
	metrics *Metrics,
) *Context {
	if observer == nil {
		observer = NewDiscardObserver()
	}
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Stage:    stage,
		Networks: networks,
		Template: template.New(fmt.Sprintf("%s scheduled email worker (%s)", cfg.App, stage.Stage())),
		State:    NewState(),
		Observer: observer.WithFields(map[string]string{"stage": stage.Stage().String()}),
		Metrics:  metrics,
	}
}

// StageName returns the stage of the pipeline as a string.
func (c *Context) StageName() string {
	return c.Stage.Stage().String()
}

// Declare adds r to the stage template under logicalID.
func (c *Context) Declare(phase, logicalID string, r *template.Resource) error {
	if err := c.Template.Add(logicalID, r); err != nil {
		return err
	}
	LogResourceDeclared(c.Observer, phase, r.Type, logicalID)
	c.Metrics.RecordResource(c.StageName(), r.Type)
	return nil
}
