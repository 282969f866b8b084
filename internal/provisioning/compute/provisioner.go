package compute

import (
	"fmt"
	"time"

	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/naming"
)

const phaseName = "compute"

// FunctionTimeout bounds a single worker invocation.
const FunctionTimeout = 2 * time.Minute

// Provisioner declares the worker function, its execution role and its
// runtime environment.
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phaseName
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Network == nil || ctx.State.SecurityGroup == "" {
		return provisioning.ErrNetworkNotResolved
	}

	cfg := ctx.Config
	stage := ctx.Stage.Stage()
	settings := ctx.Stage.Settings

	env, err := BuildRuntimeEnvironment(stage, settings.APIBaseURL, cfg.Worker.Environment)
	if err != nil {
		return err
	}
	if err := env.Validate(); err != nil {
		return err
	}

	identity, err := BuildExecutionIdentity(IdentityParams{
		RoleName:      naming.ExecutionRole(cfg.App, stage.String()),
		Account:       cfg.Account,
		Region:        cfg.Region,
		ParameterName: cfg.ParameterName,
		Buckets:       append([]string{cfg.Worker.CodeBucket}, cfg.Worker.ReadBuckets...),
	})
	if err != nil {
		return fmt.Errorf("execution identity: %w", err)
	}

	if err := ctx.Declare(phaseName, naming.LogicalExecutionRole, roleResource(identity)); err != nil {
		return err
	}

	functionName := naming.Function(cfg.App, stage.String())
	fn := &template.Resource{
		Type: template.TypeLambdaFunction,
		Properties: map[string]any{
			"FunctionName":  functionName,
			"Description":   fmt.Sprintf("Scheduled email sender (%s)", stage),
			"Runtime":       cfg.Worker.Runtime,
			"Handler":       cfg.Worker.Handler,
			"Architectures": []any{cfg.Worker.Architecture},
			"MemorySize":    cfg.Worker.MemorySize,
			"Timeout":       int(FunctionTimeout.Seconds()),
			"Code": map[string]any{
				"S3Bucket": cfg.Worker.CodeBucket,
				"S3Key":    cfg.Worker.CodeKey,
			},
			"Role": template.GetAtt(naming.LogicalExecutionRole, "Arn"),
			"Environment": map[string]any{
				"Variables": env.Map(),
			},
			"VpcConfig": map[string]any{
				"SubnetIds":        toAny(ctx.State.Network.SubnetIDs),
				"SecurityGroupIds": []any{template.GetAtt(ctx.State.SecurityGroup, "GroupId")},
			},
		},
	}
	if err := ctx.Declare(phaseName, naming.LogicalFunction, fn); err != nil {
		return err
	}

	ctx.State.Role = naming.LogicalExecutionRole
	ctx.State.Function = &provisioning.FunctionRef{
		LogicalID: naming.LogicalFunction,
		Name:      functionName,
		Stage:     stage.String(),
	}
	ctx.State.AddUnit(provisioning.NewResourceUnit(phaseName, ctx.Template, naming.LogicalExecutionRole, naming.LogicalFunction))

	ctx.Template.AddOutput("FunctionName", template.Output{
		Description: "Name of the email worker function",
		Value:       template.Ref(naming.LogicalFunction),
	})
	ctx.Template.AddOutput("FunctionArn", template.Output{
		Description: "ARN of the email worker function",
		Value:       template.GetAtt(naming.LogicalFunction, "Arn"),
	})
	return nil
}

func roleResource(id *ExecutionIdentity) *template.Resource {
	return &template.Resource{
		Type: template.TypeIAMRole,
		Properties: map[string]any{
			"RoleName":                 id.RoleName,
			"AssumeRolePolicyDocument": AssumeRolePolicy(),
			"ManagedPolicyArns":        toAny(id.ManagedPolicies),
			"Policies": []any{
				map[string]any{
					"PolicyName":     "worker-read-access",
					"PolicyDocument": id.PolicyDocument(),
				},
			},
		},
	}
}
