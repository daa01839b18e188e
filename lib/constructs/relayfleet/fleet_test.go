package relayfleet_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincfg "github.com/netforge/infra/config/domain"
	"github.com/netforge/infra/lib/constructs/fronting"
	"github.com/netforge/infra/lib/constructs/network"
	"github.com/netforge/infra/lib/constructs/relayfleet"
	"github.com/netforge/infra/lib/netmath"
)

func fleetStack(t *testing.T) (awscdk.Stack, *network.Network, *domaincfg.HostedDomain) {
	t.Helper()
	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("FleetStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String("123456789012"),
			Region:  jsii.String("us-east-1"),
		},
	})
	net := network.NewNetwork(stack, "Net", &network.NetworkProps{
		CidrBlock:   "10.0.0.0/16",
		MaxAzs:      2,
		NatGateways: 0,
		SubnetGroups: []network.SubnetGroup{
			{Name: "public", Kind: netmath.KindPublic, CidrMask: 20},
		},
	})
	zone := awsroute53.NewHostedZone(stack, jsii.String("Zone"), &awsroute53.HostedZoneProps{
		ZoneName: jsii.String(domaincfg.MainDomain),
	})
	hd := &domaincfg.HostedDomain{Zone: zone, FQDN: domaincfg.MainDomain}
	return stack, net, hd
}

func TestRelayFleetSynth(t *testing.T) {
	stack, net, hd := fleetStack(t)

	fleet := relayfleet.NewRelayFleet(stack, "Fleet", &relayfleet.RelayFleetProps{
		Network:        net,
		HostedDomain:   hd,
		Spec:           domaincfg.Spec{Stage: domaincfg.StageProd},
		NodeCount:      3,
		Fronting:       fronting.New(fronting.KindAPI),
		DownloadURL:    "https://releases.netforge.example.com/relay-linux-amd64",
		SshAllowedCidr: "203.0.113.0/24",
	})

	require.Len(t, fleet.Nodes, 3)
	assert.Equal(t, "relay-0.relay.netforge.network", fleet.Nodes[0].Fqdn)
	assert.Len(t, fleet.NodePublicIPs(), 3)

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::EC2::LaunchTemplate"), jsii.Number(3))
	template.ResourceCountIs(jsii.String("AWS::EC2::Instance"), jsii.Number(3))
	// 3 node EIPs; no NAT gateways in this network
	template.ResourceCountIs(jsii.String("AWS::EC2::EIP"), jsii.Number(3))
	template.ResourceCountIs(jsii.String("AWS::EC2::EIPAssociation"), jsii.Number(3))
	template.ResourceCountIs(jsii.String("AWS::EC2::SecurityGroup"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::Route53::RecordSet"), jsii.Number(3))

	// fronting HTTP + mesh gossip + operator SSH
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroup"), map[string]interface{}{
		"SecurityGroupIngress": assertions.Match_ArrayWith(&[]interface{}{
			map[string]interface{}{
				"IpProtocol": "tcp",
				"FromPort":   relayfleet.MeshPort,
				"ToPort":     relayfleet.MeshPort,
				"CidrIp":     "10.0.0.0/16",
			},
			map[string]interface{}{
				"IpProtocol": "tcp",
				"FromPort":   22,
				"ToPort":     22,
				"CidrIp":     "203.0.113.0/24",
			},
		}),
	})

	template.HasResourceProperties(jsii.String("AWS::EC2::LaunchTemplate"), map[string]interface{}{
		"LaunchTemplateData": assertions.Match_ObjectLike(&map[string]interface{}{
			"MetadataOptions": map[string]interface{}{
				"HttpTokens": "required",
			},
		}),
	})

	// the fleet role can read the staged config objects
	template.HasResourceProperties(jsii.String("AWS::IAM::Policy"), map[string]interface{}{
		"PolicyDocument": assertions.Match_ObjectLike(&map[string]interface{}{
			"Statement": assertions.Match_ArrayWith(&[]interface{}{
				assertions.Match_ObjectLike(&map[string]interface{}{
					"Action": assertions.Match_ArrayWith(&[]interface{}{"s3:GetObject*"}),
				}),
			}),
		}),
	})
}

func TestRelayFleetRejectsEmptyFleet(t *testing.T) {
	stack, net, hd := fleetStack(t)
	require.Panics(t, func() {
		relayfleet.NewRelayFleet(stack, "Fleet", &relayfleet.RelayFleetProps{
			Network:      net,
			HostedDomain: hd,
			Spec:         domaincfg.Spec{Stage: domaincfg.StageProd},
			NodeCount:    0,
			Fronting:     fronting.New(fronting.KindAPI),
			DownloadURL:  "https://releases.netforge.example.com/relay-linux-amd64",
		})
	})
}

func TestRelayFleetNeedsPublicSubnets(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("IsolatedStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String("123456789012"),
			Region:  jsii.String("us-east-1"),
		},
	})
	net := network.NewNetwork(stack, "Net", &network.NetworkProps{
		CidrBlock: "10.1.0.0/16",
		MaxAzs:    2,
		SubnetGroups: []network.SubnetGroup{
			{Name: "data", Kind: netmath.KindIsolated, CidrMask: 20},
		},
	})
	zone := awsroute53.NewHostedZone(stack, jsii.String("Zone"), &awsroute53.HostedZoneProps{
		ZoneName: jsii.String(domaincfg.MainDomain),
	})
	hd := &domaincfg.HostedDomain{Zone: zone, FQDN: domaincfg.MainDomain}

	require.Panics(t, func() {
		relayfleet.NewRelayFleet(stack, "Fleet", &relayfleet.RelayFleetProps{
			Network:      net,
			HostedDomain: hd,
			Spec:         domaincfg.Spec{Stage: domaincfg.StageProd},
			NodeCount:    1,
			Fronting:     fronting.New(fronting.KindAPI),
			DownloadURL:  "https://releases.netforge.example.com/relay-linux-amd64",
		})
	})
}
