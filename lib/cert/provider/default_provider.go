package provider

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type defaultProvider struct{}

// New returns the standard CertProvider.
func New() CertProvider {
	return &defaultProvider{}
}

func (p *defaultProvider) Get(
	scope constructs.Construct,
	id string,
	zone awsroute53.IHostedZone,
	fqdn string,
	certScope CertScope,
	additionalSANs []*string,
) awscertificatemanager.ICertificate {
	issueScope := constructs.Construct(scope)
	if certScope == ScopeEdge {
		// Edge certificates must live in us-east-1, so issue from a
		// dedicated stack pinned there.
		issueScope = awscdk.NewStack(scope, jsii.String(id+"EdgeCertStack"), &awscdk.StackProps{
			Env: &awscdk.Environment{Region: jsii.String("us-east-1")},
		})
	}
	props := &awscertificatemanager.CertificateProps{
		DomainName: jsii.String(fqdn),
		Validation: awscertificatemanager.CertificateValidation_FromDns(zone),
	}
	if len(additionalSANs) > 0 {
		props.SubjectAlternativeNames = &additionalSANs
	}
	return awscertificatemanager.NewCertificate(issueScope, jsii.String(id), props)
}
