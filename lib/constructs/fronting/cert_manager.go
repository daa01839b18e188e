package fronting

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"

	provider "github.com/netforge/infra/lib/cert/provider"
	"github.com/netforge/infra/lib/validation"
)

// certManager centralizes certificate issuance for fronting plugins.
type certManager struct {
	provider provider.CertProvider
}

// NewCertManager creates a certManager backed by the default provider.
func NewCertManager() *certManager {
	return &certManager{provider: provider.New()}
}

// GetRegional issues a regional ACM certificate for fqdn in the hosted zone.
func (c *certManager) GetRegional(
	scope constructs.Construct,
	id string,
	zone awsroute53.IHostedZone,
	fqdn string,
	additionalSANs []*string,
) awscertificatemanager.ICertificate {
	return c.provider.Get(scope, id, zone, fqdn, provider.ScopeRegion, additionalSANs)
}

// certificateFor returns the certificate a fronting terminates with: the
// imported one when given, otherwise a fresh issuance in the requested
// scope. SANs only apply at issuance, so importing a certificate while also
// asking for AdditionalSANs is a misconfiguration.
func certificateFor(scope constructs.Construct, id string, props *FrontingProps, certScope provider.CertScope, fqdn string) awscertificatemanager.ICertificate {
	if err := validation.AtMostOneOf(id+" certificate",
		validation.Opt("ImportedCertificate", props.ImportedCertificate != nil),
		validation.Opt("AdditionalSANs", len(props.AdditionalSANs) > 0),
	); err != nil {
		panic(err)
	}
	if props.ImportedCertificate != nil {
		return props.ImportedCertificate
	}
	cm := NewCertManager()
	if certScope == provider.ScopeEdge {
		return cm.GetEdge(scope, id, props.HostedZone, fqdn, props.AdditionalSANs)
	}
	return cm.GetRegional(scope, id, props.HostedZone, fqdn, props.AdditionalSANs)
}

// GetEdge issues an edge (us-east-1) ACM certificate for fqdn, as CloudFront
// distributions require.
func (c *certManager) GetEdge(
	scope constructs.Construct,
	id string,
	zone awsroute53.IHostedZone,
	fqdn string,
	additionalSANs []*string,
) awscertificatemanager.ICertificate {
	return c.provider.Get(scope, id, zone, fqdn, provider.ScopeEdge, additionalSANs)
}
