// Package provider issues ACM certificates for the fronting constructs.
// Certificates are either regional (API Gateway, ALB) or edge certificates
// in us-east-1 (CloudFront).
package provider

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
)

// CertScope selects where a certificate is issued.
type CertScope string

const (
	// ScopeEdge issues in us-east-1, as CloudFront requires.
	ScopeEdge CertScope = "edge"
	// ScopeRegion issues in the calling stack's region.
	ScopeRegion CertScope = "region"
)

// CertProvider obtains an ACM certificate for a domain in a hosted zone.
type CertProvider interface {
	// Get returns a DNS-validated certificate for fqdn. additionalSANs adds
	// extra SubjectAlternativeNames to the issued certificate.
	Get(scope constructs.Construct, id string, zone awsroute53.IHostedZone, fqdn string, s CertScope, additionalSANs []*string) awscertificatemanager.ICertificate
}
