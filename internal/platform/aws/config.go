package awsplatform

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/imamik/mailcron/internal/config"
)

// LoadConfig builds the SDK configuration for cfg. Static credentials and a
// profile are optional; otherwise the default credential chain applies.
func LoadConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AWS.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWS.Profile))
	}
	if cfg.AWS.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, cfg.AWS.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// Clients bundles the service clients of one account and region.
type Clients struct {
	EC2            *ec2.Client
	S3             *s3.Client
	CloudFormation *cloudformation.Client
}

// NewClients creates the service clients. A non-empty endpoint overrides the
// base endpoint of every service, e.g. for a local emulator.
func NewClients(awsCfg aws.Config, endpoint string) *Clients {
	var base *string
	if endpoint != "" {
		base = aws.String(endpoint)
	}
	return &Clients{
		EC2: ec2.NewFromConfig(awsCfg, func(o *ec2.Options) {
			o.BaseEndpoint = base
		}),
		S3: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = base
			o.UsePathStyle = base != nil
		}),
		CloudFormation: cloudformation.NewFromConfig(awsCfg, func(o *cloudformation.Options) {
			o.BaseEndpoint = base
		}),
	}
}
