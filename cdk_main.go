package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/netforge/infra/config"
	"github.com/netforge/infra/lib/tagging"
	"github.com/netforge/infra/lib/utils"
	"github.com/netforge/infra/stacks"
)

func main() {
	app := awscdk.NewApp(nil)

	stage := config.DeploymentStage(app)
	tagging.Apply(app, tagging.StandardTags{
		Project: "netforge",
		Stage:   string(stage),
	})

	certExports := stacks.CertStack(app)

	netExports := stacks.NetworkStack(
		app,
		config.WithStackSuffix(app, "NetForge-Network"),
		&stacks.NetworkStackProps{
			StackProps: awscdk.StackProps{
				Env:         utils.CdkEnv(),
				Description: jsii.String("VPC, subnets and endpoints for the NetForge relay platform"),
			},
		},
	)

	stacks.PlatformStack(
		app,
		config.WithStackSuffix(app, "NetForge-Platform"),
		&stacks.PlatformStackProps{
			StackProps: awscdk.StackProps{
				Env:                   utils.CdkEnv(),
				CrossRegionReferences: jsii.Bool(true),
				Description:           jsii.String("Relay fleet, edge fronting and DNS for the NetForge relay platform"),
			},
			CertStackExports: &certExports,
			Network:          netExports.Network,
		},
	)

	stacks.AuditStack(
		app,
		config.WithStackSuffix(app, "NetForge-Audit"),
		&stacks.AuditStackProps{
			StackProps: awscdk.StackProps{
				Env:         utils.CdkEnv(),
				Description: jsii.String("Scheduled drift audit of the NetForge relay network"),
			},
			Network: netExports.Network,
		},
	)

	app.Synth(nil)
}
