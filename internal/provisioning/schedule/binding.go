// Package schedule binds the worker function to a fixed-rate trigger.
//
// The trigger has no jitter, no input payload and no conditions; the worker
// is expected to behave idempotently on every invocation.
package schedule

import (
	"fmt"
	"time"

	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/naming"
)

const phaseName = "schedule"

// Interval is the fixed invocation rate.
const Interval = 5 * time.Minute

// Rule is a fixed-rate trigger bound to exactly one function.
type Rule struct {
	Name     string
	Interval time.Duration
	Target   provisioning.FunctionRef
}

// Expression returns the EventBridge schedule expression of r.
func (r Rule) Expression() string {
	return RateExpression(r.Interval)
}

// RateExpression renders d as an EventBridge rate expression. d must be a
// whole number of minutes.
func RateExpression(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes == 1 {
		return "rate(1 minute)"
	}
	return fmt.Sprintf("rate(%d minutes)", minutes)
}

// Binding declares the schedule rule and the permission that lets
// EventBridge invoke the function.
type Binding struct{}

// NewBinding creates the schedule phase.
func NewBinding() *Binding {
	return &Binding{}
}

// Name implements provisioning.Phase.
func (b *Binding) Name() string {
	return phaseName
}

// Provision implements provisioning.Phase.
func (b *Binding) Provision(ctx *provisioning.Context) error {
	fn := ctx.State.Function
	if fn == nil || ctx.Template.Resource(fn.LogicalID) == nil {
		return provisioning.ErrComputeNotProvisioned
	}
	if fn.Stage != ctx.StageName() {
		return fmt.Errorf("%w: function belongs to stage %s", provisioning.ErrComputeNotProvisioned, fn.Stage)
	}

	rule := Rule{
		Name:     naming.ScheduleRule(ctx.Config.App, ctx.StageName()),
		Interval: Interval,
		Target:   *fn,
	}

	if err := ctx.Declare(phaseName, naming.LogicalScheduleRule, &template.Resource{
		Type: template.TypeEventsRule,
		Properties: map[string]any{
			"Name":               rule.Name,
			"Description":        fmt.Sprintf("Invokes %s every %v", fn.Name, rule.Interval),
			"ScheduleExpression": rule.Expression(),
			"State":              "ENABLED",
			"Targets": []any{
				map[string]any{
					"Id":  "EmailSender",
					"Arn": template.GetAtt(fn.LogicalID, "Arn"),
				},
			},
		},
	}); err != nil {
		return err
	}

	if err := ctx.Declare(phaseName, naming.LogicalInvokePermission, &template.Resource{
		Type: template.TypeLambdaPermission,
		Properties: map[string]any{
			"Action":       "lambda:InvokeFunction",
			"FunctionName": template.GetAtt(fn.LogicalID, "Arn"),
			"Principal":    "events.amazonaws.com",
			"SourceArn":    template.GetAtt(naming.LogicalScheduleRule, "Arn"),
		},
	}); err != nil {
		return err
	}

	ctx.State.Rule = naming.LogicalScheduleRule
	ctx.State.AddUnit(provisioning.NewResourceUnit(phaseName, ctx.Template, naming.LogicalScheduleRule, naming.LogicalInvokePermission))
	return nil
}
