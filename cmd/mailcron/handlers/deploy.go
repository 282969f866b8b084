package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/imamik/mailcron/internal/config"
	awsplatform "github.com/imamik/mailcron/internal/platform/aws"
	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/naming"
)

// ArtifactStore uploads templates and checks worker artifacts.
type ArtifactStore interface {
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)
	UploadTemplate(ctx context.Context, bucket, key string, body []byte) (string, error)
}

// Deployer hands one stack to the reconciliation engine.
type Deployer interface {
	Deploy(ctx context.Context, in awsplatform.StackInput) (*awsplatform.DeployResult, error)
}

// newDeployTargets creates the artifact store and stack deployer.
var newDeployTargets = func(ctx context.Context, cfg *config.Config) (ArtifactStore, Deployer, error) {
	awsCfg, err := awsplatform.LoadConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	clients := awsplatform.NewClients(awsCfg, cfg.AWS.Endpoint)
	store := awsplatform.NewS3Client(clients.S3, cfg.Region, cfg.AWS.Endpoint)
	return store, awsplatform.NewStackDeployer(clients.CloudFormation, config.LoadTimeouts()), nil
}

// DeployOptions holds the flags of the deploy command.
type DeployOptions struct {
	ConfigPath string
	Stage      string
}

// Deploy assembles the selected stages and hands each template to
// CloudFormation, staging first. Nothing is deployed unless every stage
// assembled.
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateForDeploy(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	observer := newObserver()
	result, err := assemble(ctx, cfg, opts.Stage, observer, provisioning.NewMetrics())
	if err != nil {
		return fmt.Errorf("assembly failed, nothing deployed: %w", err)
	}

	store, deployer, err := newDeployTargets(ctx, cfg)
	if err != nil {
		return err
	}

	ok, err := store.ObjectExists(ctx, cfg.Worker.CodeBucket, cfg.Worker.CodeKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("worker artifact s3://%s/%s not found", cfg.Worker.CodeBucket, cfg.Worker.CodeKey)
	}

	for _, st := range result.Stages {
		body, err := template.Render(st.Template, template.FormatJSON)
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.Stage, err)
		}

		key := naming.TemplateKey(cfg.StackPrefix, st.Stage.String(), uuid.NewString())
		url, err := store.UploadTemplate(ctx, cfg.ArtifactBucket, key, body)
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.Stage, err)
		}
		observer.Printf("Uploaded %s template to %s", st.Stage, url)

		res, err := deployer.Deploy(ctx, awsplatform.StackInput{
			StackName:   st.StackName,
			TemplateURL: url,
			Tags:        st.StackTags,
		})
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.Stage, err)
		}
		printDeployResult(res)
	}
	return nil
}

func printDeployResult(res *awsplatform.DeployResult) {
	switch {
	case res.NoChanges:
		fmt.Fprintf(stdout, "%s: no changes\n", res.StackName)
	case res.Created:
		fmt.Fprintf(stdout, "%s: created (%s)\n", res.StackName, res.Status)
	default:
		fmt.Fprintf(stdout, "%s: updated (%s)\n", res.StackName, res.Status)
	}
	if fn := res.Outputs["FunctionName"]; fn != "" {
		fmt.Fprintf(stdout, "  function: %s\n", fn)
	}
}
