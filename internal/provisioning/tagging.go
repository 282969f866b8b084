package provisioning

import (
	"fmt"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/util/tags"
)

// TagPhase applies the stage's standard tags to every unit declared by the
// earlier phases.
type TagPhase struct{}

// NewTagPhase creates a new tagging phase.
func NewTagPhase() *TagPhase {
	return &TagPhase{}
}

// Name implements Phase.
func (p *TagPhase) Name() string {
	return "tags"
}

// Provision implements Phase.
func (p *TagPhase) Provision(ctx *Context) error {
	if err := ctx.Stage.Validate(); err != nil {
		return err
	}
	if len(ctx.State.Units) == 0 {
		return fmt.Errorf("no units to tag for stage %s", ctx.StageName())
	}

	set := tags.Build(ctx.Stage.Tags)
	units := make([]tags.Taggable, 0, len(ctx.State.Units))
	for _, u := range ctx.State.Units {
		units = append(units, u)
	}
	tags.ApplyAll(set, units...)

	for _, u := range ctx.State.Units {
		ctx.Observer.Event(Event{
			Type:     EventTagsApplied,
			Phase:    p.Name(),
			Resource: u.UnitName(),
			Message:  fmt.Sprintf("%d tags applied", len(set)),
		})
	}

	ctx.Template.Metadata = map[string]any{
		"mailcron:stage": ctx.StageName(),
		"mailcron:tags":  map[string]string(set),
	}
	return nil
}

// StackTags returns the tags to set on the stage's stack itself.
func StackTags(st config.StandardTags) tags.Set {
	return tags.Build(st)
}
