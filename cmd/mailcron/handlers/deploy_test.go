package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/mailcron/internal/config"
	awsplatform "github.com/imamik/mailcron/internal/platform/aws"
	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/provisioning/network"
	"github.com/imamik/mailcron/internal/util/tags"
)

type fakeStore struct {
	codeExists bool
	uploads    []string
}

func (f *fakeStore) ObjectExists(_ context.Context, _, _ string) (bool, error) {
	return f.codeExists, nil
}

func (f *fakeStore) UploadTemplate(_ context.Context, bucket, key string, _ []byte) (string, error) {
	f.uploads = append(f.uploads, key)
	return "https://" + bucket + ".s3.eu-central-1.amazonaws.com/" + key, nil
}

type fakeDeployer struct {
	inputs []awsplatform.StackInput
	failOn string
}

func (f *fakeDeployer) Deploy(_ context.Context, in awsplatform.StackInput) (*awsplatform.DeployResult, error) {
	f.inputs = append(f.inputs, in)
	if in.StackName == f.failOn {
		return nil, awsplatform.ErrStackFailed
	}
	return &awsplatform.DeployResult{StackName: in.StackName, Created: true, Status: "CREATE_COMPLETE"}, nil
}

func stubDeployTargets(t *testing.T, store *fakeStore, deployer *fakeDeployer) {
	t.Helper()
	newDeployTargets = func(context.Context, *config.Config) (ArtifactStore, Deployer, error) {
		return store, deployer, nil
	}
}

func TestDeploy_DeploysStagingThenProduction(t *testing.T) {
	out := saveAndRestoreFactories(t)
	store := &fakeStore{codeExists: true}
	deployer := &fakeDeployer{}
	stubDeployTargets(t, store, deployer)

	err := Deploy(context.Background(), DeployOptions{ConfigPath: writeTestConfig(t, cachedConfig)})
	require.NoError(t, err)

	require.Len(t, deployer.inputs, 2)
	assert.Equal(t, "mailcron-staging", deployer.inputs[0].StackName)
	assert.Equal(t, "mailcron-production", deployer.inputs[1].StackName)
	assert.Equal(t, "production", deployer.inputs[1].Tags[tags.KeyEnvironment])
	assert.Contains(t, deployer.inputs[0].TemplateURL, "https://mailcron-artifacts.s3.")
	assert.Len(t, store.uploads, 2)
	assert.Contains(t, out.String(), "mailcron-production: created")
}

func TestDeploy_RequiresArtifactBucket(t *testing.T) {
	saveAndRestoreFactories(t)
	loadConfigFile = func(string) (*config.Config, error) {
		cfg := config.Starter()
		cfg.Account = "123456789012"
		cfg.Region = "eu-central-1"
		return cfg, nil
	}

	err := Deploy(context.Background(), DeployOptions{ConfigPath: "mailcron.yaml"})
	assert.ErrorContains(t, err, "artifact_bucket is required")
}

func TestDeploy_MissingWorkerArtifact(t *testing.T) {
	saveAndRestoreFactories(t)
	deployer := &fakeDeployer{}
	stubDeployTargets(t, &fakeStore{codeExists: false}, deployer)

	err := Deploy(context.Background(), DeployOptions{ConfigPath: writeTestConfig(t, cachedConfig)})
	assert.ErrorContains(t, err, "worker artifact s3://mailcron-code/worker/bootstrap.zip not found")
	assert.Empty(t, deployer.inputs)
}

func TestDeploy_StopsAtFirstFailedStack(t *testing.T) {
	saveAndRestoreFactories(t)
	deployer := &fakeDeployer{failOn: "mailcron-staging"}
	stubDeployTargets(t, &fakeStore{codeExists: true}, deployer)

	err := Deploy(context.Background(), DeployOptions{ConfigPath: writeTestConfig(t, cachedConfig)})
	assert.ErrorIs(t, err, awsplatform.ErrStackFailed)
	assert.Len(t, deployer.inputs, 1)
}

func TestDeploy_NothingDeployedWhenAssemblyFails(t *testing.T) {
	saveAndRestoreFactories(t)
	deployer := &fakeDeployer{}
	stubDeployTargets(t, &fakeStore{codeExists: true}, deployer)
	newLiveLookup = func(context.Context, *config.Config) (network.Lookup, error) {
		return network.StaticLookup{Handle: provisioning.NetworkHandle{ID: "vpc-other"}}, nil
	}
	uncached := `account: "123456789012"
region: eu-central-1
parameter_name: /mailcron/smtp
artifact_bucket: mailcron-artifacts
network:
  id: vpc-0abc
worker:
  code_bucket: mailcron-code
  code_key: worker/bootstrap.zip
`

	err := Deploy(context.Background(), DeployOptions{ConfigPath: writeTestConfig(t, uncached)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing deployed")
	assert.Empty(t, deployer.inputs)
}

func TestDeploy_TargetsError(t *testing.T) {
	saveAndRestoreFactories(t)
	newDeployTargets = func(context.Context, *config.Config) (ArtifactStore, Deployer, error) {
		return nil, nil, errors.New("no credentials")
	}

	err := Deploy(context.Background(), DeployOptions{ConfigPath: writeTestConfig(t, cachedConfig)})
	assert.ErrorContains(t, err, "no credentials")
}
