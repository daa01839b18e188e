package stacks_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"

	"github.com/netforge/infra/stacks"
)

func testApp(stage string) awscdk.App {
	return awscdk.NewApp(&awscdk.AppProps{
		Context: &map[string]interface{}{
			"deploymentStage": stage,
		},
	})
}

func testEnv() *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String("123456789012"),
		Region:  jsii.String("us-east-1"),
	}
}

func TestNetworkStackDev(t *testing.T) {
	app := testApp("dev")
	exports := stacks.NetworkStack(app, "TestNetwork", &stacks.NetworkStackProps{
		StackProps: awscdk.StackProps{Env: testEnv()},
	})
	require.NotNil(t, exports.Network)

	template := assertions.Template_FromStack(exports.Stack, nil)
	// three groups over two AZs
	template.ResourceCountIs(jsii.String("AWS::EC2::Subnet"), jsii.Number(6))
	template.ResourceCountIs(jsii.String("AWS::EC2::NatGateway"), jsii.Number(1))
	// dev keeps the gateway endpoints but skips interface endpoints
	template.ResourceCountIs(jsii.String("AWS::EC2::VPCEndpoint"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::EC2::FlowLog"), jsii.Number(0))

	template.HasResourceProperties(jsii.String("AWS::EC2::VPC"), map[string]interface{}{
		"CidrBlock": "10.64.0.0/16",
	})
	template.HasOutput(jsii.String("VpcCidr"), map[string]interface{}{
		"Value": "10.64.0.0/16",
	})
	template.HasOutput(jsii.String("edgeSubnetIds"), assertions.Match_AnyValue())
}

func TestNetworkStackProd(t *testing.T) {
	app := testApp("prod")
	exports := stacks.NetworkStack(app, "TestNetwork", &stacks.NetworkStackProps{
		StackProps: awscdk.StackProps{Env: testEnv()},
	})

	template := assertions.Template_FromStack(exports.Stack, nil)
	// three groups over three AZs
	template.ResourceCountIs(jsii.String("AWS::EC2::Subnet"), jsii.Number(9))
	template.ResourceCountIs(jsii.String("AWS::EC2::NatGateway"), jsii.Number(3))
	// two gateway plus three interface endpoints
	template.ResourceCountIs(jsii.String("AWS::EC2::VPCEndpoint"), jsii.Number(5))
	template.ResourceCountIs(jsii.String("AWS::EC2::FlowLog"), jsii.Number(1))
}
