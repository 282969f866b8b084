package awsplatform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/google/uuid"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/util/retry"
)

// CloudFormationAPI is the subset of the CloudFormation client used for deploys.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	CreateChangeSet(ctx context.Context, in *cloudformation.CreateChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateChangeSetOutput, error)
	DescribeChangeSet(ctx context.Context, in *cloudformation.DescribeChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeChangeSetOutput, error)
	ExecuteChangeSet(ctx context.Context, in *cloudformation.ExecuteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ExecuteChangeSetOutput, error)
	DeleteChangeSet(ctx context.Context, in *cloudformation.DeleteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteChangeSetOutput, error)
}

// ErrStackFailed is returned when a stack ends in a failed or rolled back state.
var ErrStackFailed = errors.New("stack operation failed")

// StackInput describes one stage stack to hand off.
type StackInput struct {
	StackName   string
	TemplateURL string
	Tags        map[string]string
}

// DeployResult reports the outcome of one stack deploy.
type DeployResult struct {
	StackName string
	StackID   string
	ChangeSet string
	Created   bool
	NoChanges bool
	Status    string
	Outputs   map[string]string
}

// StackDeployer hands templates to CloudFormation through change sets.
type StackDeployer struct {
	api      CloudFormationAPI
	timeouts *config.Timeouts
	newID    func() string
}

// NewStackDeployer creates a deployer. A nil timeouts uses LoadTimeouts.
func NewStackDeployer(api CloudFormationAPI, timeouts *config.Timeouts) *StackDeployer {
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}
	return &StackDeployer{
		api:      api,
		timeouts: timeouts,
		newID:    func() string { return uuid.NewString() },
	}
}

// Deploy creates (or updates) the stack from in.TemplateURL and waits until
// the engine has reconciled it.
func (d *StackDeployer) Deploy(ctx context.Context, in StackInput) (*DeployResult, error) {
	exists, err := d.stackExists(ctx, in.StackName)
	if err != nil {
		return nil, err
	}

	changeSetType := cfntypes.ChangeSetTypeUpdate
	if !exists {
		changeSetType = cfntypes.ChangeSetTypeCreate
	}
	name := "mailcron-" + d.newID()

	created, err := d.api.CreateChangeSet(ctx, &cloudformation.CreateChangeSetInput{
		StackName:     aws.String(in.StackName),
		ChangeSetName: aws.String(name),
		ChangeSetType: changeSetType,
		TemplateURL:   aws.String(in.TemplateURL),
		Capabilities:  []cfntypes.Capability{cfntypes.CapabilityCapabilityNamedIam},
		Tags:          stackTags(in.Tags),
		Description:   aws.String("mailcron deploy"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create change set for %s: %w", in.StackName, err)
	}

	result := &DeployResult{
		StackName: in.StackName,
		StackID:   aws.ToString(created.StackId),
		ChangeSet: name,
		Created:   !exists,
	}

	noChanges, err := d.waitChangeSet(ctx, in.StackName, name)
	if err != nil {
		return nil, err
	}
	if noChanges {
		if _, err := d.api.DeleteChangeSet(ctx, &cloudformation.DeleteChangeSetInput{
			StackName:     aws.String(in.StackName),
			ChangeSetName: aws.String(name),
		}); err != nil {
			return nil, fmt.Errorf("failed to delete empty change set %s: %w", name, err)
		}
		result.NoChanges = true
		return result, nil
	}

	if _, err := d.api.ExecuteChangeSet(ctx, &cloudformation.ExecuteChangeSetInput{
		StackName:     aws.String(in.StackName),
		ChangeSetName: aws.String(name),
	}); err != nil {
		return nil, fmt.Errorf("failed to execute change set %s: %w", name, err)
	}

	stack, err := d.waitStack(ctx, in.StackName)
	if err != nil {
		return nil, err
	}
	result.Status = string(stack.StackStatus)
	result.Outputs = outputs(stack.Outputs)
	if result.StackID == "" {
		result.StackID = aws.ToString(stack.StackId)
	}
	return result, nil
}

func (d *StackDeployer) describeStack(ctx context.Context, name string) (*cfntypes.Stack, error) {
	var out *cloudformation.DescribeStacksOutput
	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = d.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(name)})
		if err != nil && !isThrottled(err) {
			return retry.Fatal(err)
		}
		return err
	}, retry.FromTimeouts(d.timeouts))
	if err != nil {
		return nil, err
	}
	if len(out.Stacks) == 0 {
		return nil, nil
	}
	return &out.Stacks[0], nil
}

func (d *StackDeployer) stackExists(ctx context.Context, name string) (bool, error) {
	stack, err := d.describeStack(ctx, name)
	if err != nil {
		if isStackMissing(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to describe stack %s: %w", name, err)
	}
	// A stack left in REVIEW_IN_PROGRESS has never been created.
	return stack != nil && stack.StackStatus != cfntypes.StackStatusReviewInProgress, nil
}

func (d *StackDeployer) waitChangeSet(ctx context.Context, stackName, name string) (noChanges bool, err error) {
	ctx, cancel := withTimeout(ctx, d.timeouts.ChangeSet)
	defer cancel()

	err = retry.Poll(ctx, func(ctx context.Context) (bool, error) {
		out, err := d.api.DescribeChangeSet(ctx, &cloudformation.DescribeChangeSetInput{
			StackName:     aws.String(stackName),
			ChangeSetName: aws.String(name),
		})
		if err != nil {
			if isThrottled(err) {
				return false, nil
			}
			return false, fmt.Errorf("failed to describe change set %s: %w", name, err)
		}
		switch out.Status {
		case cfntypes.ChangeSetStatusCreateComplete:
			return true, nil
		case cfntypes.ChangeSetStatusFailed:
			reason := aws.ToString(out.StatusReason)
			if isNoChanges(reason) {
				noChanges = true
				return true, nil
			}
			return false, fmt.Errorf("%w: change set %s: %s", ErrStackFailed, name, reason)
		}
		return false, nil
	}, retry.FromTimeouts(d.timeouts))
	if err != nil {
		return false, fmt.Errorf("waiting for change set %s: %w", name, err)
	}
	return noChanges, nil
}

func (d *StackDeployer) waitStack(ctx context.Context, name string) (*cfntypes.Stack, error) {
	ctx, cancel := withTimeout(ctx, d.timeouts.StackUpdate)
	defer cancel()

	var final *cfntypes.Stack
	err := retry.Poll(ctx, func(ctx context.Context) (bool, error) {
		stack, err := d.describeStack(ctx, name)
		if err != nil {
			return false, fmt.Errorf("failed to describe stack %s: %w", name, err)
		}
		if stack == nil {
			return false, nil
		}
		done, err := settled(stack)
		if done {
			final = stack
		}
		return done, err
	}, retry.FromTimeouts(d.timeouts))
	if err != nil {
		return nil, fmt.Errorf("waiting for stack %s: %w", name, err)
	}
	return final, nil
}

// settled reports whether the stack reached a terminal state, and an error
// if that state is a failure.
func settled(stack *cfntypes.Stack) (bool, error) {
	status := string(stack.StackStatus)
	switch {
	case strings.HasSuffix(status, "_IN_PROGRESS"):
		return false, nil
	case strings.HasSuffix(status, "_FAILED"), strings.Contains(status, "ROLLBACK"):
		return true, fmt.Errorf("%w: %s %s", ErrStackFailed, status, aws.ToString(stack.StackStatusReason))
	case strings.HasSuffix(status, "_COMPLETE"):
		return true, nil
	}
	return false, nil
}

// withTimeout bounds ctx by d; zero means unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func stackTags(tags map[string]string) []cfntypes.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]cfntypes.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, cfntypes.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}

func outputs(in []cfntypes.Output) map[string]string {
	out := make(map[string]string, len(in))
	for _, o := range in {
		out[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return out
}
