package config

// Config holds the deployment inputs shared by every stage.
type Config struct {
	// App is the application name used as the prefix of every resource name.
	App string `koanf:"app" yaml:"app"`

	// Account and Region select the target AWS environment.
	Account string `koanf:"account" yaml:"account,omitempty"`
	Region  string `koanf:"region" yaml:"region,omitempty"`

	// StackPrefix prefixes the CloudFormation stack name ({prefix}-{stage}).
	StackPrefix string `koanf:"stack_prefix" yaml:"stack_prefix"`

	// ArtifactBucket receives synthesized templates on deploy.
	ArtifactBucket string `koanf:"artifact_bucket" yaml:"artifact_bucket,omitempty"`

	// ParameterName is the SSM parameter the worker is allowed to read.
	ParameterName string `koanf:"parameter_name" yaml:"parameter_name"`

	Network NetworkConfig `koanf:"network" yaml:"network"`
	Worker  WorkerConfig  `koanf:"worker" yaml:"worker"`
	AWS     AWSConfig     `koanf:"aws" yaml:"aws,omitempty"`
}

// NetworkConfig identifies the pre-existing VPC the worker runs in.
type NetworkConfig struct {
	// ID is the VPC identifier (vpc-...).
	ID string `koanf:"id" yaml:"id"`

	// Shared controls whether all stages of one run reuse a single lookup.
	Shared bool `koanf:"shared" yaml:"shared"`

	// SubnetIDs and AvailabilityZones cache a previous lookup. When SubnetIDs
	// is set the VPC is not queried at synth time.
	SubnetIDs         []string `koanf:"subnet_ids" yaml:"subnet_ids,omitempty"`
	AvailabilityZones []string `koanf:"availability_zones" yaml:"availability_zones,omitempty"`
}

// Cached reports whether the network lookup result is pinned in the config.
func (n NetworkConfig) Cached() bool {
	return len(n.SubnetIDs) > 0
}

// WorkerConfig describes the packaged worker artifact and its runtime.
type WorkerConfig struct {
	CodeBucket   string `koanf:"code_bucket" yaml:"code_bucket"`
	CodeKey      string `koanf:"code_key" yaml:"code_key"`
	Runtime      string `koanf:"runtime" yaml:"runtime"`
	Handler      string `koanf:"handler" yaml:"handler"`
	Architecture string `koanf:"architecture" yaml:"architecture"`
	MemorySize   int    `koanf:"memory_size" yaml:"memory_size"`

	// ReadBuckets lists additional buckets the worker may read from.
	ReadBuckets []string `koanf:"read_buckets" yaml:"read_buckets,omitempty"`

	// Environment holds extra variables. The stage-controlled keys
	// (STAGE, API_BASE_URL, OVERWRITE_OUTGOING_EMAILS) always win.
	Environment map[string]string `koanf:"environment" yaml:"environment,omitempty"`
}

// AWSConfig carries optional client overrides. Empty values fall back to the
// default credential chain.
type AWSConfig struct {
	Profile         string `koanf:"profile" yaml:"profile,omitempty"`
	AccessKeyID     string `koanf:"access_key_id" yaml:"-"`
	SecretAccessKey string `koanf:"secret_access_key" yaml:"-"`
	SessionToken    string `koanf:"session_token" yaml:"-"`
	Endpoint        string `koanf:"endpoint" yaml:"endpoint,omitempty"`
}

// Defaults used when the config file leaves a field empty.
const (
	DefaultApp          = "mailcron"
	DefaultStackPrefix  = "mailcron"
	DefaultRuntime      = "provided.al2023"
	DefaultHandler      = "bootstrap"
	DefaultArchitecture = "arm64"
	DefaultMemorySize   = 256
)

// ApplyDefaults fills empty fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.App == "" {
		c.App = DefaultApp
	}
	if c.StackPrefix == "" {
		c.StackPrefix = DefaultStackPrefix
	}
	if c.Worker.Runtime == "" {
		c.Worker.Runtime = DefaultRuntime
	}
	if c.Worker.Handler == "" {
		c.Worker.Handler = DefaultHandler
	}
	if c.Worker.Architecture == "" {
		c.Worker.Architecture = DefaultArchitecture
	}
	if c.Worker.MemorySize == 0 {
		c.Worker.MemorySize = DefaultMemorySize
	}
}

// StackName returns the CloudFormation stack name for stage.
func (c *Config) StackName(stage Stage) string {
	return c.StackPrefix + "-" + stage.String()
}
