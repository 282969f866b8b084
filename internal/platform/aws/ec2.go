package awsplatform

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/mailcron/internal/provisioning"
)

// EC2API is the subset of the EC2 client used for network lookups.
type EC2API interface {
	DescribeVpcs(ctx context.Context, in *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeSubnets(ctx context.Context, in *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
}

// subnetTypeTag is set by CDK-built VPCs on every subnet.
const subnetTypeTag = "aws-cdk:subnet-type"

// EC2Lookup resolves VPC identifiers against the EC2 API.
type EC2Lookup struct {
	api     EC2API
	account string
	region  string
}

// NewEC2Lookup creates a lookup for the given account and region.
func NewEC2Lookup(api EC2API, account, region string) *EC2Lookup {
	return &EC2Lookup{api: api, account: account, region: region}
}

// LookupNetwork implements network.Lookup. Only private subnets are
// returned: subnets that neither auto-assign public addresses nor carry a
// CDK "Public" subnet type tag.
func (l *EC2Lookup) LookupNetwork(ctx context.Context, id string) (*provisioning.NetworkHandle, error) {
	out, err := l.api.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{id}})
	if err != nil {
		if isVpcNotFound(err) {
			return nil, &provisioning.ResolutionError{Kind: "vpc", ID: id, Err: provisioning.ErrNotFound}
		}
		return nil, fmt.Errorf("failed to describe vpc %s: %w", id, err)
	}
	if len(out.Vpcs) == 0 {
		return nil, &provisioning.ResolutionError{Kind: "vpc", ID: id, Err: provisioning.ErrNotFound}
	}
	vpc := out.Vpcs[0]

	subnets, err := l.privateSubnets(ctx, id)
	if err != nil {
		return nil, err
	}

	h := &provisioning.NetworkHandle{
		ID:      id,
		VpcID:   aws.ToString(vpc.VpcId),
		CIDR:    aws.ToString(vpc.CidrBlock),
		Account: l.account,
		Region:  l.region,
	}
	if owner := aws.ToString(vpc.OwnerId); owner != "" {
		h.Account = owner
	}
	for _, s := range subnets {
		h.SubnetIDs = append(h.SubnetIDs, aws.ToString(s.SubnetId))
		h.AvailabilityZones = append(h.AvailabilityZones, aws.ToString(s.AvailabilityZone))
	}
	return h, nil
}

func (l *EC2Lookup) privateSubnets(ctx context.Context, vpcID string) ([]ec2types.Subnet, error) {
	var subnets []ec2types.Subnet
	p := ec2.NewDescribeSubnetsPaginator(l.api, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{{Name: aws.String("vpc-id"), Values: []string{vpcID}}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe subnets of %s: %w", vpcID, err)
		}
		for _, s := range page.Subnets {
			if isPrivate(s) {
				subnets = append(subnets, s)
			}
		}
	}

	sort.Slice(subnets, func(i, j int) bool {
		ai, aj := aws.ToString(subnets[i].AvailabilityZone), aws.ToString(subnets[j].AvailabilityZone)
		if ai != aj {
			return ai < aj
		}
		return aws.ToString(subnets[i].SubnetId) < aws.ToString(subnets[j].SubnetId)
	})
	return subnets, nil
}

func isPrivate(s ec2types.Subnet) bool {
	if aws.ToBool(s.MapPublicIpOnLaunch) {
		return false
	}
	for _, t := range s.Tags {
		if aws.ToString(t.Key) == subnetTypeTag && aws.ToString(t.Value) == "Public" {
			return false
		}
	}
	return true
}
