package network

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/jsii-runtime-go"

	"github.com/netforge/infra/lib/netmath"
)

// buildEndpoints provisions gateway endpoints on the private/isolated route
// tables and interface endpoints inside the private subnets, so workloads
// off the public path still reach AWS APIs without NAT traffic.
func (n *Network) buildEndpoints(props *NetworkProps) {
	region := awscdk.Stack_Of(n.Construct).Region()

	for _, service := range props.GatewayEndpoints {
		routeTables := n.routeTablesForEndpoints()
		if len(routeTables) == 0 {
			panic(fmt.Errorf("gateway endpoint %q needs private or isolated subnets", service))
		}
		awsec2.NewCfnVPCEndpoint(n.Construct, jsii.Sprintf("GatewayEndpoint-%s", service), &awsec2.CfnVPCEndpointProps{
			VpcId:           n.Vpc.Ref(),
			ServiceName:     jsii.String("com.amazonaws." + *region + "." + service),
			VpcEndpointType: jsii.String("Gateway"),
			RouteTableIds:   &routeTables,
		})
	}

	if len(props.InterfaceEndpoints) == 0 {
		return
	}
	privates := n.SubnetsOfKind(netmath.KindPrivate)
	if len(privates) == 0 {
		panic(fmt.Errorf("interface endpoints need a private subnet group"))
	}
	subnetIds := SubnetIds(privates)

	// Endpoint ENIs accept TLS from anywhere inside the VPC.
	endpointSg := awsec2.NewCfnSecurityGroup(n.Construct, jsii.String("EndpointSg"), &awsec2.CfnSecurityGroupProps{
		GroupDescription: jsii.String("Interface endpoint access from inside the VPC"),
		VpcId:            n.Vpc.Ref(),
		SecurityGroupIngress: &[]interface{}{
			&awsec2.CfnSecurityGroup_IngressProperty{
				IpProtocol:  jsii.String("tcp"),
				FromPort:    jsii.Number(443),
				ToPort:      jsii.Number(443),
				CidrIp:      jsii.String(props.CidrBlock),
				Description: jsii.String("TLS from the VPC"),
			},
		},
	})
	sgIds := []*string{endpointSg.AttrGroupId()}

	for _, service := range props.InterfaceEndpoints {
		awsec2.NewCfnVPCEndpoint(n.Construct, jsii.Sprintf("InterfaceEndpoint-%s", service), &awsec2.CfnVPCEndpointProps{
			VpcId:             n.Vpc.Ref(),
			ServiceName:       jsii.String("com.amazonaws." + *region + "." + service),
			VpcEndpointType:   jsii.String("Interface"),
			SubnetIds:         &subnetIds,
			SecurityGroupIds:  &sgIds,
			PrivateDnsEnabled: jsii.Bool(true),
		})
	}
}
