package relayfleet

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	domaincfg "github.com/netforge/infra/config/domain"
	"github.com/netforge/infra/lib/cdklogger"
	"github.com/netforge/infra/lib/constructs/network"
	"github.com/netforge/infra/lib/utils"
	"github.com/netforge/infra/lib/validation"
	"github.com/netforge/infra/scripts/renderer"
)

const (
	relayConfigPath = "/etc/netforge/relay.toml"
	relayDataDir    = "/data/relay"
)

type newNodeInput struct {
	Index         int
	Stage         domaincfg.StageType
	Region        string
	DownloadURL   string
	Role          awsiam.IRole
	SecurityGroup awsec2.ISecurityGroup
	KeyPair       awsec2.IKeyPair
	ConfigAsset   awss3assets.Asset
	Subnet        network.Subnet
	Fqdn          string
}

// RelayNode is one provisioned relay: launch template, instance, address.
type RelayNode struct {
	Index          int
	LaunchTemplate awsec2.LaunchTemplate
	ElasticIp      awsec2.CfnEIP
	Instance       awsec2.CfnInstance
	Fqdn           string
}

func newNode(scope constructs.Construct, input newNodeInput) RelayNode {
	name := fmt.Sprintf("relay-%d", input.Index)

	templateName := "netforge-" + name
	if err := validation.LaunchTemplateName.Check("launch template", templateName); err != nil {
		panic(err)
	}

	initData := awsec2.CloudFormationInit_FromElements(
		awsec2.InitFile_FromExistingAsset(jsii.String(relayConfigPath), input.ConfigAsset, &awsec2.InitFileOptions{
			Owner: jsii.String("root"),
			Group: jsii.String("root"),
			Mode:  jsii.String("000644"),
		}),
	)

	// dev keeps small instances and disks; prod gets headroom
	instanceSize := awsec2.InstanceSize_MEDIUM
	volumeSize := 100
	if input.Stage == domaincfg.StageDev {
		instanceSize = awsec2.InstanceSize_SMALL
		volumeSize = 50
	}

	machineImage := awsec2.MachineImage_LatestAmazonLinux2023(nil)
	userData := awsec2.UserData_ForLinux(nil)

	launchTemplate := awsec2.NewLaunchTemplate(scope, jsii.String(name+"-lt"), &awsec2.LaunchTemplateProps{
		LaunchTemplateName: jsii.String(templateName),
		InstanceType:       awsec2.InstanceType_Of(awsec2.InstanceClass_T3A, instanceSize),
		MachineImage:       machineImage,
		SecurityGroup:      input.SecurityGroup,
		Role:               input.Role,
		KeyPair:            input.KeyPair,
		RequireImdsv2:      jsii.Bool(true),
		BlockDevices: &[]*awsec2.BlockDevice{
			{
				DeviceName: jsii.String("/dev/xvda"),
				Volume: awsec2.BlockDeviceVolume_Ebs(jsii.Number(volumeSize), &awsec2.EbsDeviceOptions{
					DeleteOnTermination: jsii.Bool(true),
					Encrypted:           jsii.Bool(true),
				}),
			},
		},
		UserData: userData,
	})

	cdklogger.LogInfo(scope, name+"-lt", "Created launch template %s: T3a.%s, %d GiB", templateName, instanceSize, volumeSize)

	utils.AttachInitDataToLaunchTemplate(utils.AttachInitDataToLaunchTemplateInput{
		LaunchTemplate: launchTemplate,
		InitData:       initData,
		Role:           input.Role,
		Platform:       awsec2.OperatingSystemType_LINUX,
	})

	installScript, err := renderer.Render(renderer.TplInstallRelay, renderer.InstallRelayData{
		DownloadURL: input.DownloadURL,
	})
	if err != nil {
		panic(fmt.Errorf("rendering install script for %s: %w", name, err))
	}
	startupScript, err := renderer.Render(renderer.TplRelayStartup, renderer.RelayStartupData{
		Region:      input.Region,
		DataDirPath: relayDataDir,
		EnvVars: map[string]string{
			"NODE_NAME": name,
			"NODE_FQDN": input.Fqdn,
		},
		SortedEnvKeys: []string{"NODE_FQDN", "NODE_NAME"},
	})
	if err != nil {
		panic(fmt.Errorf("rendering startup script for %s: %w", name, err))
	}
	launchTemplate.UserData().AddCommands(jsii.String(installScript), jsii.String(startupScript))

	eip := awsec2.NewCfnEIP(scope, jsii.String(name+"-eip"), &awsec2.CfnEIPProps{
		Domain: jsii.String("vpc"),
	})

	instance := utils.InstanceFromLaunchTemplateWithElasticIp(scope, jsii.String(name), utils.InstanceFromLaunchTemplateInput{
		LaunchTemplate: launchTemplate,
		ElasticIp:      eip,
		SubnetId:       input.Subnet.Cfn.Ref(),
	})

	return RelayNode{
		Index:          input.Index,
		LaunchTemplate: launchTemplate,
		ElasticIp:      eip,
		Instance:       instance,
		Fqdn:           input.Fqdn,
	}
}
