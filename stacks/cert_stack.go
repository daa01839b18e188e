package stacks

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/jsii-runtime-go"

	"github.com/netforge/infra/config"
	domaincfg "github.com/netforge/infra/config/domain"
	"github.com/netforge/infra/lib/utils"
)

type CertStackExports struct {
	DomainCert awscertificatemanager.Certificate
}

// CertStack creates a stack with an ACM certificate for the domain, fixed at
// us-east-1. CloudFront only accepts certificates issued in that region.
func CertStack(app awscdk.App) CertStackExports {
	env := utils.CdkEnv()
	env.Region = jsii.String("us-east-1")
	stackName := config.WithStackSuffix(app, "NetForge-Cert")
	stack := awscdk.NewStack(app, jsii.String(stackName), &awscdk.StackProps{
		Env:                   env,
		CrossRegionReferences: jsii.Bool(true),
	})

	stage := config.DeploymentStage(stack)
	devPrefix := config.GetDevPrefix(stack)
	hd := domaincfg.NewHostedDomain(stack, "Domain", &domaincfg.HostedDomainProps{
		Spec: domaincfg.Spec{
			Stage:     domaincfg.StageType(stage),
			Sub:       "",
			DevPrefix: devPrefix,
		},
	})

	return CertStackExports{
		DomainCert: hd.Cert,
	}
}
