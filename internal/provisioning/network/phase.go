package network

import (
	"fmt"

	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/naming"
)

const phaseName = "network"

// EgressPorts are the outbound TCP ports the worker may use: HTTPS for the
// API and AWS endpoints, SMTP submission for mail delivery.
var EgressPorts = []int{443, 587}

// Phase resolves the configured network and declares the stage's security
// group inside it.
type Phase struct{}

// NewPhase creates the network phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements provisioning.Phase.
func (p *Phase) Name() string {
	return phaseName
}

// Provision implements provisioning.Phase.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	if ctx.Networks == nil {
		return fmt.Errorf("no network resolver configured")
	}

	h, err := ctx.Networks.Resolve(ctx, ctx.Config.Network.ID)
	if err != nil {
		return err
	}
	provisioning.LogResourceResolved(ctx.Observer, phaseName, "vpc", h.VpcID)
	ctx.State.Network = h

	sg := &template.Resource{
		Type: template.TypeSecurityGroup,
		Properties: map[string]any{
			"GroupName":           naming.SecurityGroup(ctx.Config.App, ctx.StageName()),
			"GroupDescription":    fmt.Sprintf("Outbound access for the %s email worker", ctx.StageName()),
			"VpcId":               h.VpcID,
			"SecurityGroupEgress": egressRules(),
		},
	}
	if err := ctx.Declare(phaseName, naming.LogicalSecurityGroup, sg); err != nil {
		return err
	}
	ctx.State.SecurityGroup = naming.LogicalSecurityGroup
	ctx.State.AddUnit(provisioning.NewResourceUnit(phaseName, ctx.Template, naming.LogicalSecurityGroup))

	ctx.Template.AddOutput("VpcId", template.Output{
		Description: "VPC the worker is placed in",
		Value:       h.VpcID,
	})
	return nil
}

func egressRules() []any {
	rules := make([]any, 0, len(EgressPorts))
	for _, port := range EgressPorts {
		rules = append(rules, map[string]any{
			"IpProtocol":  "tcp",
			"FromPort":    port,
			"ToPort":      port,
			"CidrIp":      "0.0.0.0/0",
			"Description": fmt.Sprintf("tcp/%d", port),
		})
	}
	return rules
}
