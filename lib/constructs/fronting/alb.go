package fronting

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	provider "github.com/netforge/infra/lib/cert/provider"
	"github.com/netforge/infra/lib/validation"
)

// albFronting fronts the relay fleet with an application load balancer.
// ALB is priced per hour plus LCUs, so it only beats the HTTP API once a
// stage carries steady traffic; in exchange it brings layer-7 routing,
// WebSockets, no 10 MB body limit and direct registration of the relay
// node addresses as IP targets. Low-traffic stages should stay on the
// HTTP API, and globally cached reads belong to CloudFront.
type albFronting struct{}

// NewAlbFronting returns a Fronting implemented via an ALB.
func NewAlbFronting() Fronting {
	return &albFronting{}
}

// AttachRoutes places an internet-facing ALB in the given public subnets,
// registers the relay addresses as an IP target group, terminates TLS on
// a 443 listener, redirects port 80, and aliases the record to the ALB.
func (a *albFronting) AttachRoutes(scope constructs.Construct, id string, props *FrontingProps) FrontingResult {
	if props.VpcId == nil || len(props.SubnetIds) < 2 {
		panic(fmt.Sprintf("ALB fronting %s needs a VPC and at least two public subnets", id))
	}
	if len(props.TargetIPs) == 0 {
		panic(fmt.Sprintf("ALB fronting %s has no target addresses", id))
	}
	if err := validation.LoadBalancerName.Check("load balancer", id); err != nil {
		panic(fmt.Errorf("ALB fronting %s: %w", id, err))
	}

	fqdn := resolveFqdn(id, props)

	cert := certificateFor(scope, id+"Cert", props, provider.ScopeRegion, fqdn)

	alb := awselasticloadbalancingv2.NewCfnLoadBalancer(scope, jsii.String(id+"Alb"), &awselasticloadbalancingv2.CfnLoadBalancerProps{
		Type:          jsii.String("application"),
		Scheme:        jsii.String("internet-facing"),
		IpAddressType: jsii.String("ipv4"),
		Subnets:       &props.SubnetIds,
	})

	port := props.TargetPort
	if port == 0 {
		port = 80
	}
	targets := lo.Map(props.TargetIPs, func(ip *string, _ int) interface{} {
		return &awselasticloadbalancingv2.CfnTargetGroup_TargetDescriptionProperty{
			Id:   ip,
			Port: jsii.Number(port),
		}
	})
	targetGroup := awselasticloadbalancingv2.NewCfnTargetGroup(scope, jsii.String(id+"Targets"), &awselasticloadbalancingv2.CfnTargetGroupProps{
		VpcId:           props.VpcId,
		TargetType:      jsii.String("ip"),
		Protocol:        jsii.String("HTTP"),
		Port:            jsii.Number(port),
		Targets:         targets,
		HealthCheckPath: jsii.String("/health"),
	})

	awselasticloadbalancingv2.NewCfnListener(scope, jsii.String(id+"HttpsListener"), &awselasticloadbalancingv2.CfnListenerProps{
		LoadBalancerArn: alb.Ref(),
		Port:            jsii.Number(443),
		Protocol:        jsii.String("HTTPS"),
		Certificates: []interface{}{
			&awselasticloadbalancingv2.CfnListener_CertificateProperty{
				CertificateArn: cert.CertificateArn(),
			},
		},
		DefaultActions: []interface{}{
			&awselasticloadbalancingv2.CfnListener_ActionProperty{
				Type:           jsii.String("forward"),
				TargetGroupArn: targetGroup.Ref(),
			},
		},
	})

	awselasticloadbalancingv2.NewCfnListener(scope, jsii.String(id+"HttpListener"), &awselasticloadbalancingv2.CfnListenerProps{
		LoadBalancerArn: alb.Ref(),
		Port:            jsii.Number(80),
		Protocol:        jsii.String("HTTP"),
		DefaultActions: []interface{}{
			&awselasticloadbalancingv2.CfnListener_ActionProperty{
				Type: jsii.String("redirect"),
				RedirectConfig: &awselasticloadbalancingv2.CfnListener_RedirectConfigProperty{
					Protocol:   jsii.String("HTTPS"),
					Port:       jsii.String("443"),
					StatusCode: jsii.String("HTTP_301"),
				},
			},
		},
	})

	awsroute53.NewCfnRecordSet(scope, jsii.String(id+"Alias"), &awsroute53.CfnRecordSetProps{
		HostedZoneId: props.HostedZone.HostedZoneId(),
		Name:         jsii.String(fqdn),
		Type:         jsii.String("A"),
		AliasTarget: &awsroute53.CfnRecordSet_AliasTargetProperty{
			DnsName:      alb.AttrDnsName(),
			HostedZoneId: alb.AttrCanonicalHostedZoneId(),
		},
	})

	return FrontingResult{
		FQDN:        jsii.String(fqdn),
		Certificate: cert,
	}
}

// IngressRules declares the security-group ingress rules for ALB access.
func (a *albFronting) IngressRules() []IngressSpec {
	return []IngressSpec{
		{
			Protocol:    awsec2.Protocol_TCP,
			FromPort:    80,
			ToPort:      80,
			Source:      "0.0.0.0/0",
			Description: "HTTP from clients via ALB",
		},
		{
			Protocol:    awsec2.Protocol_TCP,
			FromPort:    443,
			ToPort:      443,
			Source:      "0.0.0.0/0",
			Description: "HTTPS from clients via ALB",
		},
	}
}
