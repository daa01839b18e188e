// Package fronting provides pluggable edge proxies for the relay platform.
// An implementation terminates TLS on a custom domain and routes traffic to
// the relay nodes; which one to use is picked per stage via config.
package fronting

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
)

// FrontingResult bundles the public FQDN and the ACM certificate used, so
// stacks can export both the domain name and the certificate ARN.
type FrontingResult struct {
	FQDN        *string
	Certificate awscertificatemanager.ICertificate
}

// FrontingProps holds the inputs needed to wire up an edge proxy.
type FrontingProps struct {
	// HostedZone is the Route53 hosted zone for record creation.
	HostedZone awsroute53.IHostedZone
	// ImportedCertificate, when set, is used instead of issuing a new one.
	ImportedCertificate awscertificatemanager.ICertificate
	// AdditionalSANs adds SubjectAlternativeNames when issuing a certificate.
	AdditionalSANs []*string
	// Endpoint is the public DNS name or address of the backend relay.
	Endpoint *string
	// RecordName is the subdomain prefix under HostedZone (e.g. "relay.dev").
	RecordName *string

	// ALB placement. VpcId and the public SubnetIds host the balancer;
	// TargetIPs are the relay node addresses registered in the target group,
	// reached on TargetPort (defaults to 80). The other kinds ignore these.
	VpcId      *string
	SubnetIds  []*string
	TargetIPs  []*string
	TargetPort float64
}

// Fronting abstracts TLS termination and routing to the relay fleet.
type Fronting interface {
	// AttachRoutes provisions the edge proxy and returns the public domain
	// and certificate. Misconfigured props panic, failing the synthesis.
	AttachRoutes(scope constructs.Construct, id string, props *FrontingProps) FrontingResult
	// IngressRules returns the security-group openings the relay nodes need
	// for this fronting implementation.
	IngressRules() []IngressSpec
}

// NewApiGatewayFronting returns a Fronting implemented via HTTP API.
func NewApiGatewayFronting() Fronting {
	return &apiGateway{}
}
