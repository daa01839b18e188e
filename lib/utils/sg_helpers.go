package utils

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	fronting "github.com/netforge/infra/lib/constructs/fronting"
)

// IngressProperties converts fronting ingress specs into CfnSecurityGroup
// ingress entries. Each source is validated first; a bad spec panics since
// it would otherwise surface as a deploy-time failure.
func IngressProperties(rules []fronting.IngressSpec) []interface{} {
	return lo.Map(rules, func(spec fronting.IngressSpec, _ int) interface{} {
		if err := spec.Validate(); err != nil {
			panic(fmt.Sprintf("ingress rule %q: %v", spec.Description, err))
		}
		entry := &awsec2.CfnSecurityGroup_IngressProperty{
			IpProtocol:  jsii.String(string(spec.Protocol)),
			FromPort:    jsii.Number(spec.FromPort),
			ToPort:      jsii.Number(spec.ToPort),
			Description: jsii.String(spec.Description),
		}
		switch {
		case strings.HasPrefix(spec.Source, "pl-"):
			entry.SourcePrefixListId = jsii.String(spec.Source)
		case strings.Contains(spec.Source, ":"):
			entry.CidrIpv6 = jsii.String(spec.Source)
		default:
			entry.CidrIp = jsii.String(spec.Source)
		}
		return entry
	})
}
