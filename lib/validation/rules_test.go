package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameRules(t *testing.T) {
	assert.NoError(t, LoadBalancerName.Check("load balancer", "relay-edge-1"))
	assert.ErrorIs(t, LoadBalancerName.Check("load balancer", "-edge"), ErrInvalidName)
	assert.ErrorIs(t, LoadBalancerName.Check("load balancer", "internal-edge"), ErrInvalidName)
	assert.ErrorIs(t, LoadBalancerName.Check("load balancer", "a-name-that-is-far-too-long-for-an-elb"), ErrInvalidName)
	assert.ErrorIs(t, LoadBalancerName.Check("load balancer", "has_underscore"), ErrInvalidName)

	assert.NoError(t, LaunchTemplateName.Check("launch template", "relay-node(v2)"))
	assert.ErrorIs(t, LaunchTemplateName.Check("launch template", "ab"), ErrInvalidName)

	assert.NoError(t, SecurityGroupName.Check("security group", "relay fleet sg"))
	assert.ErrorIs(t, SecurityGroupName.Check("security group", "sg-12345"), ErrInvalidName)
}

func TestValidatorTags(t *testing.T) {
	type props struct {
		Cidr     string `validate:"cidrv4"`
		Ipv6Cidr string `validate:"omitempty,cidrv6"`
		RoleArn  string `validate:"omitempty,arn"`
	}

	require.NoError(t, Struct(props{Cidr: "10.0.0.0/16"}))
	require.NoError(t, Struct(props{
		Cidr:     "10.0.0.0/16",
		Ipv6Cidr: "2001:db8:1234:1a00::/56",
		RoleArn:  "arn:aws:iam::123456789012:role/relay",
	}))

	assert.Error(t, Struct(props{Cidr: "10.0.0.1/16"}))
	assert.Error(t, Struct(props{Cidr: "10.0.0.0/16", Ipv6Cidr: "2001:db8::/96"}))
	assert.Error(t, Struct(props{Cidr: "10.0.0.0/16", RoleArn: "not-an-arn"}))
}

func TestExactlyOneOf(t *testing.T) {
	assert.NoError(t, ExactlyOneOf("peer", Opt("CidrIp", true), Opt("SourceSecurityGroupId", false)))

	err := ExactlyOneOf("peer", Opt("CidrIp", true), Opt("SourceSecurityGroupId", true))
	assert.ErrorContains(t, err, "mutually exclusive")

	err = ExactlyOneOf("peer", Opt("CidrIp", false), Opt("SourceSecurityGroupId", false))
	assert.ErrorContains(t, err, "is required")
}

func TestAtMostOneOf(t *testing.T) {
	assert.NoError(t, AtMostOneOf("subnet", Opt("Prefix", false), Opt("EqualShare", false)))
	assert.Error(t, AtMostOneOf("subnet", Opt("Prefix", true), Opt("EqualShare", true)))
}
