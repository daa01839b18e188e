package utils

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type InstanceFromLaunchTemplateInput struct {
	LaunchTemplate awsec2.LaunchTemplate
	ElasticIp      awsec2.CfnEIP
	SubnetId       *string
}

// InstanceFromLaunchTemplateWithElasticIp creates a CfnInstance from the
// latest version of a launch template, places it on the given subnet and
// associates the elastic IP with it.
func InstanceFromLaunchTemplateWithElasticIp(
	scope constructs.Construct,
	id *string,
	input InstanceFromLaunchTemplateInput,
) awsec2.CfnInstance {
	instance := awsec2.NewCfnInstance(scope, jsii.Sprintf("%s-instance", *id), &awsec2.CfnInstanceProps{
		LaunchTemplate: &awsec2.CfnInstance_LaunchTemplateSpecificationProperty{
			LaunchTemplateId: input.LaunchTemplate.LaunchTemplateId(),
			Version:          input.LaunchTemplate.LatestVersionNumber(),
		},
		SubnetId: input.SubnetId,
	})

	instance.AddDependency(input.LaunchTemplate.Node().DefaultChild().(awscdk.CfnResource))

	awsec2.NewCfnEIPAssociation(scope, jsii.Sprintf("%s-eip-association", *id), &awsec2.CfnEIPAssociationProps{
		InstanceId:   instance.AttrInstanceId(),
		AllocationId: input.ElasticIp.AttrAllocationId(),
	})

	return instance
}
