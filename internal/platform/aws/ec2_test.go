package awsplatform

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/mailcron/internal/provisioning"
)

type fakeEC2 struct {
	vpcs      []ec2types.Vpc
	vpcErr    error
	pages     [][]ec2types.Subnet
	subnetErr error

	vpcCalls    int
	subnetCalls int
}

func (f *fakeEC2) DescribeVpcs(_ context.Context, in *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	f.vpcCalls++
	if f.vpcErr != nil {
		return nil, f.vpcErr
	}
	var out []ec2types.Vpc
	for _, v := range f.vpcs {
		if aws.ToString(v.VpcId) == in.VpcIds[0] {
			out = append(out, v)
		}
	}
	return &ec2.DescribeVpcsOutput{Vpcs: out}, nil
}

func (f *fakeEC2) DescribeSubnets(_ context.Context, in *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	if f.subnetErr != nil {
		return nil, f.subnetErr
	}
	page := f.subnetCalls
	f.subnetCalls++
	out := &ec2.DescribeSubnetsOutput{}
	if page < len(f.pages) {
		out.Subnets = f.pages[page]
	}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func subnet(id, az string, public bool, tags ...ec2types.Tag) ec2types.Subnet {
	return ec2types.Subnet{
		SubnetId:            aws.String(id),
		AvailabilityZone:    aws.String(az),
		MapPublicIpOnLaunch: aws.Bool(public),
		Tags:                tags,
	}
}

func TestEC2Lookup_PrivateSubnetsOnly(t *testing.T) {
	t.Parallel()
	api := &fakeEC2{
		vpcs: []ec2types.Vpc{{VpcId: aws.String("vpc-0abc"), CidrBlock: aws.String("10.0.0.0/16"), OwnerId: aws.String("123456789012")}},
		pages: [][]ec2types.Subnet{
			{
				subnet("subnet-b2", "eu-central-1b", false),
				subnet("subnet-pub", "eu-central-1a", true),
			},
			{
				subnet("subnet-a1", "eu-central-1a", false),
				subnet("subnet-cdkpub", "eu-central-1c", false, ec2types.Tag{Key: aws.String(subnetTypeTag), Value: aws.String("Public")}),
			},
		},
	}

	h, err := NewEC2Lookup(api, "", "eu-central-1").LookupNetwork(context.Background(), "vpc-0abc")
	require.NoError(t, err)

	assert.Equal(t, "vpc-0abc", h.ID)
	assert.Equal(t, "vpc-0abc", h.VpcID)
	assert.Equal(t, "10.0.0.0/16", h.CIDR)
	assert.Equal(t, "123456789012", h.Account)
	assert.Equal(t, "eu-central-1", h.Region)
	assert.Equal(t, []string{"subnet-a1", "subnet-b2"}, h.SubnetIDs)
	assert.Equal(t, []string{"eu-central-1a", "eu-central-1b"}, h.AvailabilityZones)
	assert.Equal(t, 2, api.subnetCalls)
}

func TestEC2Lookup_VpcNotFound(t *testing.T) {
	t.Parallel()

	t.Run("api error code", func(t *testing.T) {
		t.Parallel()
		api := &fakeEC2{vpcErr: &smithy.GenericAPIError{Code: "InvalidVpcID.NotFound", Message: "The vpc ID 'vpc-x' does not exist"}}
		_, err := NewEC2Lookup(api, "", "eu-central-1").LookupNetwork(context.Background(), "vpc-x")

		var re *provisioning.ResolutionError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "vpc-x", re.ID)
		assert.ErrorIs(t, err, provisioning.ErrNotFound)
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()
		_, err := NewEC2Lookup(&fakeEC2{}, "", "eu-central-1").LookupNetwork(context.Background(), "vpc-x")
		assert.ErrorIs(t, err, provisioning.ErrNotFound)
	})
}

func TestEC2Lookup_OtherErrors(t *testing.T) {
	t.Parallel()

	denied := &smithy.GenericAPIError{Code: "UnauthorizedOperation"}
	_, err := NewEC2Lookup(&fakeEC2{vpcErr: denied}, "", "eu-central-1").LookupNetwork(context.Background(), "vpc-1")
	require.Error(t, err)
	assert.False(t, provisioning.IsResolutionError(err))
	assert.ErrorIs(t, err, denied)

	api := &fakeEC2{
		vpcs:      []ec2types.Vpc{{VpcId: aws.String("vpc-1")}},
		subnetErr: errors.New("boom"),
	}
	_, err = NewEC2Lookup(api, "", "eu-central-1").LookupNetwork(context.Background(), "vpc-1")
	assert.ErrorContains(t, err, "failed to describe subnets of vpc-1")
}
