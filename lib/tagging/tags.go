// Package tagging applies the standard NetForge tag set through the CDK
// aspect system, so every taggable resource under a scope carries the same
// project/stage metadata.
package tagging

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	KeyProject   = "netforge:project"
	KeyStage     = "netforge:stage"
	KeyManagedBy = "netforge:managed-by"
)

// StandardTags is the tag set applied to every stack.
type StandardTags struct {
	Project string
	Stage   string
}

// Apply registers the standard tags on the scope. Tags propagate to children
// via the runtime's aspect visitor, so stacks call this once at the top.
func Apply(scope constructs.Construct, tags StandardTags) {
	t := awscdk.Tags_Of(scope)
	t.Add(jsii.String(KeyProject), jsii.String(tags.Project), nil)
	t.Add(jsii.String(KeyStage), jsii.String(tags.Stage), nil)
	t.Add(jsii.String(KeyManagedBy), jsii.String("cdk"), nil)
}
