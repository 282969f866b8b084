package config

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	accountPattern = regexp.MustCompile(`^[0-9]{12}$`)
	regionPattern  = regexp.MustCompile(`^[a-z]{2}(-gov)?-[a-z]+-[0-9]$`)

	// SSM parameter names: letters, digits and ._-/ only, no empty path segments.
	parameterPattern = regexp.MustCompile(`^/?[a-zA-Z0-9_.-]+(/[a-zA-Z0-9_.-]+)*$`)
)

// ValidArchitectures contains the Lambda instruction set architectures.
var ValidArchitectures = map[string]bool{
	"arm64":  true,
	"x86_64": true,
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.App == "" {
		return fmt.Errorf("app is required")
	}
	if c.Account == "" {
		return fmt.Errorf("account is required (set account or CDK_DEFAULT_ACCOUNT)")
	}
	if !accountPattern.MatchString(c.Account) {
		return fmt.Errorf("invalid account %q: must be a 12 digit AWS account id", c.Account)
	}
	if c.Region == "" {
		return fmt.Errorf("region is required (set region or AWS_REGION)")
	}
	if !regionPattern.MatchString(c.Region) {
		return fmt.Errorf("invalid region %q", c.Region)
	}
	if c.ParameterName == "" {
		return fmt.Errorf("parameter_name is required")
	}
	if !ValidParameterName(c.ParameterName) {
		return fmt.Errorf("invalid parameter_name %q: must name a single parameter", c.ParameterName)
	}

	if err := c.validateNetwork(); err != nil {
		return fmt.Errorf("network validation failed: %w", err)
	}

	if err := c.validateWorker(); err != nil {
		return fmt.Errorf("worker validation failed: %w", err)
	}

	return nil
}

// validateNetwork validates network configuration.
func (c *Config) validateNetwork() error {
	if c.Network.ID == "" {
		return fmt.Errorf("network.id is required")
	}
	if !strings.HasPrefix(c.Network.ID, "vpc-") {
		return fmt.Errorf("invalid network.id %q: must be a VPC id (vpc-...)", c.Network.ID)
	}
	for _, id := range c.Network.SubnetIDs {
		if !strings.HasPrefix(id, "subnet-") {
			return fmt.Errorf("invalid subnet id %q in network.subnet_ids", id)
		}
	}
	return nil
}

// validateWorker validates the worker artifact and runtime settings.
func (c *Config) validateWorker() error {
	w := c.Worker
	if w.CodeBucket == "" {
		return fmt.Errorf("worker.code_bucket is required")
	}
	if !validBucketName(w.CodeBucket) {
		return fmt.Errorf("invalid bucket name %q in worker.code_bucket", w.CodeBucket)
	}
	if w.CodeKey == "" {
		return fmt.Errorf("worker.code_key is required")
	}
	if !ValidArchitectures[w.Architecture] {
		return fmt.Errorf("invalid worker.architecture %q: must be arm64 or x86_64", w.Architecture)
	}
	if w.MemorySize < 128 || w.MemorySize > 10240 {
		return fmt.Errorf("worker.memory_size must be between 128 and 10240, got %d", w.MemorySize)
	}
	for _, b := range w.ReadBuckets {
		if !validBucketName(b) {
			return fmt.Errorf("invalid bucket name %q in worker.read_buckets", b)
		}
	}
	return nil
}

// ValidParameterName reports whether name identifies a single SSM parameter.
func ValidParameterName(name string) bool {
	return parameterPattern.MatchString(name)
}

func validBucketName(b string) bool {
	return b != "" && !strings.ContainsAny(b, "*?/")
}

// ValidateForDeploy additionally checks the inputs only deploy needs.
func (c *Config) ValidateForDeploy() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ArtifactBucket == "" {
		return fmt.Errorf("artifact_bucket is required for deploy")
	}
	return nil
}
