package stacks

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/netforge/infra/config"
	"github.com/netforge/infra/lib/cdklogger"
	"github.com/netforge/infra/lib/constructs/network"
	"github.com/netforge/infra/lib/netmath"
)

type NetworkStackProps struct {
	awscdk.StackProps
}

type NetworkStackExports struct {
	Stack   awscdk.Stack
	Network *network.Network
}

// NetworkStack provisions the relay platform VPC. Dev stages get a smaller
// footprint: fewer AZs, a single shared NAT gateway and no flow logs.
func NetworkStack(scope constructs.Construct, id string, props *NetworkStackProps) NetworkStackExports {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, jsii.String(id), &sprops)

	stage := config.DeploymentStage(stack)

	netProps := &network.NetworkProps{
		CidrBlock:   "10.64.0.0/16",
		MaxAzs:      2,
		NatGateways: 1,
		SubnetGroups: []network.SubnetGroup{
			{Name: "edge", Kind: netmath.KindPublic, CidrMask: 20},
			{Name: "relay", Kind: netmath.KindPrivate, CidrMask: 19},
			{Name: "data", Kind: netmath.KindIsolated, CidrMask: 21},
		},
		GatewayEndpoints: []string{"s3", "dynamodb"},
	}
	if stage == config.DeploymentStage_PROD {
		netProps.MaxAzs = 3
		netProps.NatGateways = 3
		netProps.InterfaceEndpoints = []string{"ssm", "ssmmessages", "ec2messages"}
		netProps.FlowLogs = true
	}

	net := network.NewNetwork(stack, "Network", netProps)
	cdklogger.LogInfo(stack, "", "Provisioned VPC %s: %d subnets over %d AZs, %d NAT gateways.",
		netProps.CidrBlock, len(net.Subnets), netProps.MaxAzs, len(net.NatGateways))

	awscdk.NewCfnOutput(stack, jsii.String("VpcId"), &awscdk.CfnOutputProps{
		Value:       net.VpcId(),
		Description: jsii.String("Relay platform VPC"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("VpcCidr"), &awscdk.CfnOutputProps{
		Value:       jsii.String(netProps.CidrBlock),
		Description: jsii.String("IPv4 range of the relay platform VPC"),
	})
	for _, group := range netProps.SubnetGroups {
		ids := network.SubnetIds(net.SubnetsOfGroup(group.Name))
		awscdk.NewCfnOutput(stack, jsii.Sprintf("%sSubnetIds", group.Name), &awscdk.CfnOutputProps{
			Value:       awscdk.Fn_Join(jsii.String(","), &ids),
			Description: jsii.Sprintf("Subnet ids of the %s group", group.Name),
		})
	}

	return NetworkStackExports{
		Stack:   stack,
		Network: net,
	}
}
