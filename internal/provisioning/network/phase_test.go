package network

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/mailcron/internal/config"
	"github.com/imamik/mailcron/internal/provisioning"
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/naming"
)

func newContext(t *testing.T, resolver provisioning.NetworkResolver) *provisioning.Context {
	t.Helper()
	cfg := &config.Config{
		Account:       "123456789012",
		Region:        "eu-central-1",
		ParameterName: "/mailcron/smtp",
		Network:       config.NetworkConfig{ID: "vpc-0abc"},
		Worker:        config.WorkerConfig{CodeBucket: "artifacts", CodeKey: "worker.zip"},
	}
	cfg.ApplyDefaults()
	sc, err := config.DefaultRegistry().Lookup(config.StageStaging)
	require.NoError(t, err)
	return provisioning.NewContext(context.Background(), cfg, sc, resolver, nil, nil)
}

func TestPhase_DeclaresSecurityGroupInResolvedVPC(t *testing.T) {
	t.Parallel()
	ctx := newContext(t, NewProvider(&countingLookup{handle: testHandle()}))

	require.NoError(t, NewPhase().Provision(ctx))

	require.NotNil(t, ctx.State.Network)
	assert.Equal(t, "vpc-0abc", ctx.State.Network.VpcID)

	sg := ctx.Template.Resource(naming.LogicalSecurityGroup)
	require.NotNil(t, sg)
	assert.Equal(t, template.TypeSecurityGroup, sg.Type)
	assert.Equal(t, "vpc-0abc", sg.Properties["VpcId"])
	assert.Equal(t, "mailcron-email-sender-staging-sg", sg.Properties["GroupName"])
	assert.Len(t, sg.Properties["SecurityGroupEgress"], len(EgressPorts))
	assert.Len(t, ctx.State.Units, 1)
	assert.Equal(t, "vpc-0abc", ctx.Template.Outputs["VpcId"].Value)
}

func TestPhase_ResolutionFailure(t *testing.T) {
	t.Parallel()
	ctx := newContext(t, NewProvider(&countingLookup{err: errors.New("not found")}))

	err := NewPhase().Provision(ctx)
	assert.True(t, provisioning.IsResolutionError(err))
	assert.Empty(t, ctx.Template.Resources)
}

func TestPhase_NoResolver(t *testing.T) {
	t.Parallel()
	ctx := newContext(t, nil)
	assert.ErrorContains(t, NewPhase().Provision(ctx), "no network resolver")
}
