package utils

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/jsii-runtime-go"
)

type AttachInitDataToLaunchTemplateInput struct {
	LaunchTemplate awsec2.LaunchTemplate
	InitData       awsec2.CloudFormationInit
	Role           awsiam.IRole
	Platform       awsec2.OperatingSystemType
}

// AttachInitDataToLaunchTemplate wires CloudFormation Init metadata into a
// launch template's user data. The L2 Attach API targets instances, so we
// attach to the template's underlying Cfn resource ourselves.
func AttachInitDataToLaunchTemplate(input AttachInitDataToLaunchTemplateInput) {
	lt := input.LaunchTemplate
	input.InitData.Attach(lt.Node().DefaultChild().(awscdk.CfnResource), &awsec2.AttachInitOptions{
		InstanceRole: input.Role,
		UserData:     lt.UserData(),
		Platform:     input.Platform,
		// Template user data is shared by every instance version; a
		// fingerprint would force needless template churn.
		EmbedFingerprint: jsii.Bool(false),
	})
}
