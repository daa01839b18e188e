package stacks

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"

	"github.com/netforge/infra/config/alternativedomains"
	"github.com/netforge/infra/lib/constructs/fronting"
)

func altDomainsConfig() *alternativedomains.StackSuffixConfig {
	noSan := false
	return &alternativedomains.StackSuffixConfig{
		AlternativeHostedZoneDomain: "netforge.network",
		Alternatives: map[string]alternativedomains.AlternativeMapping{
			"rpc.netforge.network":     {TargetComponentId: "relayFronting"},
			"api.netforge.network":     {TargetComponentId: "relayFronting"},
			"gateway.netforge.network": {TargetComponentId: "relayFronting"},
			"status.netforge.network":  {TargetComponentId: "relayFronting", RequiresTlsSan: &noSan},
			"ws.netforge.network":      {TargetComponentId: "relayFronting"},
		},
	}
}

func TestAppendAlternativeSANsSortedAndFiltered(t *testing.T) {
	stack := awscdk.NewStack(awscdk.NewApp(nil), jsii.String("SanOrder"), nil)
	props := &fronting.FrontingProps{}

	appendAlternativeSANs(stack, altDomainsConfig(), props)

	got := make([]string, 0, len(props.AdditionalSANs))
	for _, san := range props.AdditionalSANs {
		got = append(got, *san)
	}
	assert.Equal(t, []string{
		"api.netforge.network",
		"gateway.netforge.network",
		"rpc.netforge.network",
		"ws.netforge.network",
	}, got, "SANs must come out sorted, skipping entries that opt out")
}

func TestAppendAlternativeSANsSkipsImportedCertificate(t *testing.T) {
	stack := awscdk.NewStack(awscdk.NewApp(nil), jsii.String("SanImported"), nil)
	props := &fronting.FrontingProps{
		ImportedCertificate: awscertificatemanager.Certificate_FromCertificateArn(stack, jsii.String("Imported"),
			jsii.String("arn:aws:acm:us-east-1:123456789012:certificate/11111111-2222-3333-4444-555555555555")),
	}

	appendAlternativeSANs(stack, altDomainsConfig(), props)

	assert.Empty(t, props.AdditionalSANs)
}
