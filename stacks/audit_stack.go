package stacks

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsevents"
	"github.com/aws/aws-cdk-go/awscdk/v2/awseventstargets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdklambdagoalpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/netforge/infra/config"
	"github.com/netforge/infra/lib/cdklogger"
	"github.com/netforge/infra/lib/constructs/network"
)

type AuditStackProps struct {
	awscdk.StackProps
	Network *network.Network
}

// AuditStack schedules a Lambda that compares what is actually running in
// the VPC against the planned address layout and drops a JSON report into a
// private bucket. Drift between the two means someone changed the network
// outside of a deployment.
func AuditStack(scope constructs.Construct, id string, props *AuditStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, jsii.String(id), &sprops)
	if !config.IsStackInSynthesis(stack) {
		return stack
	}

	auditEnv := config.GetEnvironmentVariables[config.AuditEnvironmentVariables](stack)

	bucketProps := &awss3.BucketProps{
		PublicReadAccess:  jsii.Bool(false),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
	}
	if auditEnv.ReportBucketName != "" {
		bucketProps.BucketName = jsii.String(auditEnv.ReportBucketName)
	}
	reports := awss3.NewBucket(stack, jsii.String("AuditReports"), bucketProps)

	expectedSubnets := make([]string, len(props.Network.Plan))
	for i, planned := range props.Network.Plan {
		expectedSubnets[i] = planned.Block.String()
	}

	fn := awscdklambdagoalpha.NewGoFunction(stack, jsii.String("SubnetAuditFn"), &awscdklambdagoalpha.GoFunctionProps{
		Entry:   jsii.String("./stacks/audit/lambdas/subnetaudit"),
		Timeout: awscdk.Duration_Minutes(jsii.Number(5)),
		Environment: &map[string]*string{
			"VPC_ID":                props.Network.VpcId(),
			"EXPECTED_VPC_CIDR":     props.Network.Vpc.CidrBlock(),
			"EXPECTED_SUBNET_CIDRS": jsii.String(strings.Join(expectedSubnets, ",")),
			"REPORT_BUCKET":         reports.BucketName(),
		},
	})
	reports.GrantWrite(fn, jsii.String("*"), nil)
	fn.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings("ec2:DescribeSubnets", "ec2:DescribeVpcs", "ec2:DescribeAddresses"),
		Resources: jsii.Strings("*"),
	}))

	rule := awsevents.NewRule(stack, jsii.String("AuditSchedule"), &awsevents.RuleProps{
		Schedule: awsevents.Schedule_Rate(awscdk.Duration_Hours(jsii.Number(24))),
	})
	rule.AddTarget(awseventstargets.NewLambdaFunction(fn, nil))

	cdklogger.LogInfo(stack, "", "Subnet audit scheduled daily against %d planned subnets.", len(expectedSubnets))

	awscdk.NewCfnOutput(stack, jsii.String("AuditReportBucket"), &awscdk.CfnOutputProps{
		Value:       reports.BucketName(),
		Description: jsii.String("Bucket receiving subnet audit reports"),
	})

	return stack
}
