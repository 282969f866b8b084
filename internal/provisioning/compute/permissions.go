package compute

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/mailcron/internal/provisioning"
)

// NetworkExecutionPolicyARN grants ENI management and log delivery, the
// permissions a VPC-attached function needs to run.
const NetworkExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AWSLambdaVPCAccessExecutionRole"

// Actions granted by the inline policy.
const (
	ActionGetParameter = "ssm:GetParameter"
	ActionGetObject    = "s3:GetObject*"
	ActionGetBucket    = "s3:GetBucket*"
	ActionList         = "s3:List*"
)

// allowedActions is the complete set of inline actions the identity may hold.
var allowedActions = map[string]bool{
	ActionGetParameter: true,
	ActionGetObject:    true,
	ActionGetBucket:    true,
	ActionList:         true,
}

// allowedManagedPolicies is the complete set of managed policies the identity may hold.
var allowedManagedPolicies = map[string]bool{
	NetworkExecutionPolicyARN: true,
}

// writeVerbs mark actions that mutate state.
var writeVerbs = []string{"Put", "Delete", "Create", "Update", "Attach", "Detach", "Tag", "Untag", "Modify", "Write", "Restore", "Replicate"}

// Statement is one allow statement of the inline policy.
type Statement struct {
	Sid       string
	Actions   []string
	Resources []string
}

// ExecutionIdentity is the IAM role of one compute unit.
type ExecutionIdentity struct {
	RoleName        string
	ManagedPolicies []string
	Statements      []Statement
}

// IdentityParams describes what the worker needs to read.
type IdentityParams struct {
	RoleName      string
	Partition     string
	Account       string
	Region        string
	ParameterName string
	Buckets       []string
}

// BuildExecutionIdentity returns the least-privilege identity for a worker
// with the given needs and validates it.
func BuildExecutionIdentity(p IdentityParams) (*ExecutionIdentity, error) {
	if p.ParameterName == "" {
		return nil, fmt.Errorf("parameter name is required")
	}
	buckets := dedupe(p.Buckets)
	if len(buckets) == 0 {
		return nil, fmt.Errorf("at least one readable bucket is required")
	}
	partition := p.Partition
	if partition == "" {
		partition = PartitionForRegion(p.Region)
	}

	bucketResources := make([]string, 0, 2*len(buckets))
	for _, b := range buckets {
		bucketResources = append(bucketResources,
			fmt.Sprintf("arn:%s:s3:::%s", partition, b),
			fmt.Sprintf("arn:%s:s3:::%s/*", partition, b),
		)
	}

	id := &ExecutionIdentity{
		RoleName:        p.RoleName,
		ManagedPolicies: []string{NetworkExecutionPolicyARN},
		Statements: []Statement{
			{
				Sid:       "ReadParameter",
				Actions:   []string{ActionGetParameter},
				Resources: []string{ParameterARN(partition, p.Region, p.Account, p.ParameterName)},
			},
			{
				Sid:       "ReadObjects",
				Actions:   []string{ActionGetObject, ActionGetBucket, ActionList},
				Resources: bucketResources,
			},
		},
	}

	if err := ValidateLeastPrivilege(id); err != nil {
		return nil, err
	}
	return id, nil
}

// ParameterARN returns the ARN of an SSM parameter. Names may be given with
// or without their leading slash.
func ParameterARN(partition, region, account, name string) string {
	return fmt.Sprintf("arn:%s:ssm:%s:%s:parameter/%s", partition, region, account, strings.TrimPrefix(name, "/"))
}

// PartitionForRegion maps a region to its AWS partition.
func PartitionForRegion(region string) string {
	switch {
	case strings.HasPrefix(region, "cn-"):
		return "aws-cn"
	case strings.HasPrefix(region, "us-gov-"):
		return "aws-us-gov"
	default:
		return "aws"
	}
}

// ValidateLeastPrivilege rejects wildcards, write or administrative actions
// and anything outside the worker's known needs.
func ValidateLeastPrivilege(id *ExecutionIdentity) error {
	for _, arn := range id.ManagedPolicies {
		if !allowedManagedPolicies[arn] {
			return &provisioning.PermissionError{Action: arn, Reason: "managed policy not allowed"}
		}
	}
	for _, st := range id.Statements {
		for _, r := range st.Resources {
			if !scopedResource(r) {
				return &provisioning.PermissionError{Action: strings.Join(st.Actions, ","), Reason: "wildcard resource " + r}
			}
		}
		for _, a := range st.Actions {
			if err := checkAction(a); err != nil {
				return err
			}
		}
	}
	return nil
}

// scopedResource reports whether r names one resource. The only wildcard
// allowed is the object suffix of a named bucket (arn:...:s3:::bucket/*).
func scopedResource(r string) bool {
	if prefix, bucket, ok := strings.Cut(r, ":s3:::"); ok {
		bucket = strings.TrimSuffix(bucket, "/*")
		if bucket == "" || strings.Contains(bucket, "/") {
			return false
		}
		r = prefix + bucket
	}
	return r != "" && !strings.ContainsAny(r, "*?")
}

func checkAction(action string) error {
	service, verb, ok := strings.Cut(action, ":")
	switch {
	case action == "*" || !ok:
		return &provisioning.PermissionError{Action: action, Reason: "wildcard action"}
	case verb == "*":
		return &provisioning.PermissionError{Action: action, Reason: "service-wide wildcard"}
	case service == "iam" || service == "organizations" || service == "sts":
		return &provisioning.PermissionError{Action: action, Reason: "administrative action"}
	}
	for _, w := range writeVerbs {
		if strings.HasPrefix(verb, w) {
			return &provisioning.PermissionError{Action: action, Reason: "write action"}
		}
	}
	if !allowedActions[action] {
		return &provisioning.PermissionError{Action: action, Reason: "not required by the worker"}
	}
	return nil
}

// Actions returns every inline action granted, sorted.
func (id *ExecutionIdentity) Actions() []string {
	seen := make(map[string]bool)
	for _, st := range id.Statements {
		for _, a := range st.Actions {
			seen[a] = true
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// PolicyDocument renders the inline statements as an IAM policy document.
func (id *ExecutionIdentity) PolicyDocument() map[string]any {
	statements := make([]any, 0, len(id.Statements))
	for _, st := range id.Statements {
		statements = append(statements, map[string]any{
			"Sid":      st.Sid,
			"Effect":   "Allow",
			"Action":   toAny(st.Actions),
			"Resource": toAny(st.Resources),
		})
	}
	return map[string]any{
		"Version":   "2012-10-17",
		"Statement": statements,
	}
}

// AssumeRolePolicy allows the Lambda service to assume the role.
func AssumeRolePolicy() map[string]any {
	return map[string]any{
		"Version": "2012-10-17",
		"Statement": []any{
			map[string]any{
				"Effect":    "Allow",
				"Principal": map[string]any{"Service": "lambda.amazonaws.com"},
				"Action":    "sts:AssumeRole",
			},
		},
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func dedupe(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
