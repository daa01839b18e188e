package config

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// Constants for CDK parameter names
const (
	RelayVersionParamName = "relayVersion"
)

// CDKParams groups the CloudFormation parameters a platform deployment
// accepts at deploy time.
type CDKParams struct {
	RelayVersion awscdk.CfnParameter
}

func NewCDKParams(scope constructs.Construct) CDKParams {
	relayVersion := awscdk.NewCfnParameter(scope, jsii.String(RelayVersionParamName), &awscdk.CfnParameterProps{
		Type:        jsii.String("String"),
		Description: jsii.String("Relay daemon release tag recorded on the fleet"),
		Default:     jsii.String("latest"),
	})

	return CDKParams{
		RelayVersion: relayVersion,
	}
}
