package utils

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// PublishAddressToSubdomain points subdomain.<zone> at a public IP address.
// The relay fleet uses this to give every node a stable per-node name from
// its elastic IP.
func PublishAddressToSubdomain(
	scope constructs.Construct,
	subdomain string,
	zone awsroute53.IHostedZone,
	address *string,
) awsroute53.ARecord {
	return awsroute53.NewARecord(scope, jsii.String("AliasRecord"+subdomain), &awsroute53.ARecordProps{
		Zone:       zone,
		RecordName: jsii.String(subdomain),
		Target:     awsroute53.RecordTarget_FromIpAddresses(address),
	})
}
