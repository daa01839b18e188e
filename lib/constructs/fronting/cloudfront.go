package fronting

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	provider "github.com/netforge/infra/lib/cert/provider"
)

// cloudFront fronts the relay fleet through the CloudFront edge network.
// It is the right choice when the audience is global: requests terminate
// at the nearest POP, Shield Standard absorbs floods, and HTTP/3 and IPv6
// come for free. The trade-offs are a per-GB egress cost floor, slower
// deploys, and the requirement that the certificate live in us-east-1.
// Region-local stages are better served by the HTTP API or an ALB.
type cloudFront struct{}

// NewCloudFrontFronting returns a Fronting implemented via CloudFront.
func NewCloudFrontFronting() Fronting {
	return &cloudFront{}
}

// AttachRoutes creates a distribution with the relay endpoint as its custom
// origin, an edge certificate for the custom domain, and an alias record.
func (c *cloudFront) AttachRoutes(scope constructs.Construct, id string, props *FrontingProps) FrontingResult {
	if props.Endpoint == nil || *props.Endpoint == "" {
		panic("Endpoint is required for CloudFront fronting " + id)
	}

	fqdn := resolveFqdn(id, props)

	cert := certificateFor(scope, id+"EdgeCert", props, provider.ScopeEdge, fqdn)

	origin := awscloudfrontorigins.NewHttpOrigin(props.Endpoint, &awscloudfrontorigins.HttpOriginProps{
		ProtocolPolicy: awscloudfront.OriginProtocolPolicy_HTTP_ONLY,
	})
	distribution := awscloudfront.NewDistribution(scope, jsii.String(id+"Distribution"), &awscloudfront.DistributionProps{
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin:               origin,
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_ALL(),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_DISABLED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_ALL_VIEWER(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		},
		DomainNames: &[]*string{jsii.String(fqdn)},
		Certificate: cert,
		HttpVersion: awscloudfront.HttpVersion_HTTP2_AND_3,
	})

	awsroute53.NewARecord(scope, jsii.String(id+"ARecord"), &awsroute53.ARecordProps{
		Zone:       props.HostedZone,
		RecordName: props.RecordName,
		Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(distribution)),
	})

	return FrontingResult{
		FQDN:        jsii.String(fqdn),
		Certificate: cert,
	}
}

// IngressRules declares the security-group ingress rules for CloudFront
// origin access, scoped to the AWS-managed CloudFront prefix list.
func (c *cloudFront) IngressRules() []IngressSpec {
	const cfPrefixList = "pl-68a54001"
	return []IngressSpec{
		{
			Protocol:    awsec2.Protocol_TCP,
			FromPort:    80,
			ToPort:      80,
			Source:      cfPrefixList,
			Description: "HTTP from CloudFront edge",
		},
	}
}
