package config

import (
	"fmt"
	"strconv"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// DeploymentStageType is the deployment stage a stack targets.
type DeploymentStageType string

const (
	DeploymentStage_DEV  DeploymentStageType = "dev"
	DeploymentStage_PROD DeploymentStageType = "prod"
)

// DeploymentStage reads the stage from 'cdk.json/context/deploymentStage'.
// Defaults to prod so a forgotten flag never downgrades an environment.
func DeploymentStage(scope constructs.Construct) DeploymentStageType {
	stage := DeploymentStage_PROD

	ctxValue := scope.Node().TryGetContext(jsii.String("deploymentStage"))
	if v, ok := ctxValue.(string); ok {
		stage = DeploymentStageType(v)
	}

	if stage != DeploymentStage_DEV && stage != DeploymentStage_PROD {
		panic(fmt.Sprintf("invalid deploymentStage %q, allowed: dev | prod", stage))
	}
	return stage
}

// GetDevPrefix reads the per-developer domain prefix from
// 'cdk.json/context/devPrefix'. Required for dev stages, empty otherwise.
func GetDevPrefix(scope constructs.Construct) string {
	ctxValue := scope.Node().TryGetContext(jsii.String("devPrefix"))
	if v, ok := ctxValue.(string); ok {
		return v
	}
	return ""
}

// StackSuffix reads 'cdk.json/context/stackSuffix', used to distinguish
// parallel deployments (e.g. "mainnet", "testnet").
func StackSuffix(scope constructs.Construct) string {
	ctxValue := scope.Node().TryGetContext(jsii.String("stackSuffix"))
	if v, ok := ctxValue.(string); ok {
		return v
	}
	return ""
}

// WithStackSuffix appends the configured stack suffix to a base stack name.
func WithStackSuffix(scope constructs.Construct, name string) string {
	if suffix := StackSuffix(scope); suffix != "" {
		return name + "-" + suffix
	}
	return name
}

// NodeCount reads the relay fleet size from 'cdk.json/context/nodeCount'.
func NodeCount(scope constructs.Construct) int {
	count := 2

	ctxValue := scope.Node().TryGetContext(jsii.String("nodeCount"))
	switch v := ctxValue.(type) {
	case float64:
		count = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Sprintf("context nodeCount %q is not a number", v))
		}
		count = parsed
	}

	if count < 1 {
		panic(fmt.Sprintf("nodeCount must be at least 1, got %d", count))
	}
	return count
}

// KeyPairName reads the EC2 key pair from 'cdk.json/context/keyPairName'.
func KeyPairName(scope constructs.Construct) string {
	keyPairName := "NetForgeKeyPair"

	ctxValue := scope.Node().TryGetContext(jsii.String("keyPairName"))
	if v, ok := ctxValue.(string); ok {
		keyPairName = v
	}

	return keyPairName
}
