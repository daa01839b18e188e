package network_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netforge/infra/lib/constructs/network"
	"github.com/netforge/infra/lib/netmath"
)

func testStack(t *testing.T) awscdk.Stack {
	t.Helper()
	app := awscdk.NewApp(nil)
	return awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String("123456789012"),
			Region:  jsii.String("us-east-1"),
		},
	})
}

func standardProps() *network.NetworkProps {
	return &network.NetworkProps{
		CidrBlock:   "10.0.0.0/16",
		MaxAzs:      2,
		NatGateways: 2,
		SubnetGroups: []network.SubnetGroup{
			{Name: "public", Kind: netmath.KindPublic, CidrMask: 20},
			{Name: "app", Kind: netmath.KindPrivate, CidrMask: 19},
			{Name: "data", Kind: netmath.KindIsolated, CidrMask: 24},
		},
	}
}

func TestNetworkSynth(t *testing.T) {
	stack := testStack(t)
	net := network.NewNetwork(stack, "Net", standardProps())

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::EC2::VPC"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::EC2::Subnet"), jsii.Number(6))
	template.ResourceCountIs(jsii.String("AWS::EC2::NatGateway"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::EC2::EIP"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::EC2::InternetGateway"), jsii.Number(1))
	// public shared + one per private AZ + isolated shared
	template.ResourceCountIs(jsii.String("AWS::EC2::RouteTable"), jsii.Number(4))
	template.ResourceCountIs(jsii.String("AWS::EC2::SubnetRouteTableAssociation"), jsii.Number(6))

	template.HasResourceProperties(jsii.String("AWS::EC2::VPC"), map[string]interface{}{
		"CidrBlock":          "10.0.0.0/16",
		"EnableDnsSupport":   true,
		"EnableDnsHostnames": true,
	})
	// first public subnet takes the head of the range and maps public IPs
	template.HasResourceProperties(jsii.String("AWS::EC2::Subnet"), map[string]interface{}{
		"CidrBlock":           "10.0.0.0/20",
		"MapPublicIpOnLaunch": true,
	})
	// private subnets follow the public block, per the deterministic plan
	template.HasResourceProperties(jsii.String("AWS::EC2::Subnet"), map[string]interface{}{
		"CidrBlock": "10.0.32.0/19",
	})

	require.Len(t, net.Subnets, 6)
	assert.Len(t, net.SubnetsOfKind(netmath.KindPublic), 2)
	assert.Len(t, net.SubnetsOfGroup("data"), 2)
}

func TestNetworkEndpointsAndFlowLogs(t *testing.T) {
	stack := testStack(t)
	props := standardProps()
	props.GatewayEndpoints = []string{"s3", "dynamodb"}
	props.InterfaceEndpoints = []string{"ssm", "secretsmanager"}
	props.FlowLogs = true
	network.NewNetwork(stack, "Net", props)

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::EC2::VPCEndpoint"), jsii.Number(4))
	template.ResourceCountIs(jsii.String("AWS::EC2::FlowLog"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::Logs::LogGroup"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::EC2::VPCEndpoint"), map[string]interface{}{
		"VpcEndpointType": "Gateway",
		"ServiceName":     "com.amazonaws.us-east-1.s3",
	})
	template.HasResourceProperties(jsii.String("AWS::EC2::VPCEndpoint"), map[string]interface{}{
		"VpcEndpointType":   "Interface",
		"PrivateDnsEnabled": true,
	})
}

func TestNetworkIpv6(t *testing.T) {
	stack := testStack(t)
	props := standardProps()
	props.Ipv6CidrBlock = "2001:db8:1234:1a00::/56"
	network.NewNetwork(stack, "Net", props)

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::EC2::VPCCidrBlock"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::EC2::EgressOnlyInternetGateway"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::EC2::Subnet"), map[string]interface{}{
		"Ipv6CidrBlock": "2001:db8:1234:1a00::/64",
	})
}

func TestNetworkRejectsBadProps(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *network.NetworkProps)
	}{
		{"non-canonical cidr", func(p *network.NetworkProps) { p.CidrBlock = "10.0.0.1/16" }},
		{"zero azs", func(p *network.NetworkProps) { p.MaxAzs = 0 }},
		{"more nats than azs", func(p *network.NetworkProps) { p.NatGateways = 3 }},
		{"no groups", func(p *network.NetworkProps) { p.SubnetGroups = nil }},
		{"does not fit", func(p *network.NetworkProps) {
			p.SubnetGroups = []network.SubnetGroup{
				{Name: "a", Kind: netmath.KindPublic, CidrMask: 17},
				{Name: "b", Kind: netmath.KindPrivate, CidrMask: 17},
			}
		}},
		{"nat without public", func(p *network.NetworkProps) {
			p.SubnetGroups = []network.SubnetGroup{{Name: "app", Kind: netmath.KindPrivate, CidrMask: 20}}
		}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			stack := testStack(t)
			props := standardProps()
			tt.mutate(props)
			assert.Panics(t, func() { network.NewNetwork(stack, "Net", props) })
		})
	}
}
