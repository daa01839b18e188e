// Package relayfleet provisions the relay nodes: one launch template,
// instance, elastic IP and DNS record per node, sharing an IAM role and a
// security group assembled from the selected fronting's ingress needs.
package relayfleet

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/netforge/infra/config"
	domaincfg "github.com/netforge/infra/config/domain"
	relaycfg "github.com/netforge/infra/config/relay"
	"github.com/netforge/infra/lib/cdklogger"
	"github.com/netforge/infra/lib/constructs/fronting"
	"github.com/netforge/infra/lib/constructs/network"
	"github.com/netforge/infra/lib/netmath"
	"github.com/netforge/infra/lib/utils"
	"github.com/netforge/infra/lib/validation"
)

// MeshPort is the port relays gossip on between themselves.
const MeshPort = 7946

type RelayFleetProps struct {
	Network *network.Network
	// HostedDomain supplies the zone and certificate domain for node records.
	HostedDomain *domaincfg.HostedDomain
	Spec         domaincfg.Spec
	NodeCount    int
	// Fronting determines which edge ingress rules the node SG carries.
	Fronting fronting.Fronting
	// DownloadURL is where nodes fetch the relay daemon binary.
	DownloadURL string
	// SshAllowedCidr optionally opens SSH to an operator range.
	SshAllowedCidr string
	// KeyPair overrides the context-configured key pair.
	KeyPair awsec2.IKeyPair
}

// RelayFleet is the provisioned set of relay nodes.
type RelayFleet struct {
	constructs.Construct
	Nodes         []RelayNode
	Role          awsiam.IRole
	SecurityGroup awsec2.CfnSecurityGroup
}

func NewRelayFleet(scope constructs.Construct, id string, props *RelayFleetProps) *RelayFleet {
	fleetConstruct := constructs.NewConstruct(scope, &id)
	fleet := &RelayFleet{Construct: fleetConstruct}

	if props.NodeCount < 1 {
		panic(fmt.Sprintf("relay fleet %s needs at least one node", id))
	}
	publics := props.Network.SubnetsOfKind(netmath.KindPublic)
	if len(publics) == 0 {
		panic(fmt.Sprintf("relay fleet %s needs public subnets for its nodes", id))
	}
	cdklogger.LogInfo(fleetConstruct, "", "Initializing relay fleet with %d nodes across %d public subnets.", props.NodeCount, len(publics))

	if props.KeyPair == nil {
		keyPairName := config.KeyPairName(fleetConstruct)
		if err := validation.KeyPairName.Check("key pair", keyPairName); err != nil {
			panic(err)
		}
		props.KeyPair = awsec2.KeyPair_FromKeyPairName(fleetConstruct, jsii.String("DefaultKeyPair"), jsii.String(keyPairName))
	}

	fleet.Role = fleet.buildRole(props)
	fleet.SecurityGroup = fleet.buildSecurityGroup(props)
	sgRef := awsec2.SecurityGroup_FromSecurityGroupId(fleetConstruct, jsii.String("SgRef"), fleet.SecurityGroup.AttrGroupId(), nil)

	stage := props.Spec.Stage
	region := *awscdk.Stack_Of(fleetConstruct).Region()

	// FQDNs are needed up front: every node's config lists its peers.
	fqdns := make([]string, props.NodeCount)
	for i := range fqdns {
		fqdns[i] = *props.Spec.Subdomain(fmt.Sprintf("relay-%d", i))
	}

	for i := 0; i < props.NodeCount; i++ {
		values := relaycfg.NewDefaultValues()
		values.Node.Name = fmt.Sprintf("relay-%d", i)
		values.Mesh.Region = region
		for j, fqdn := range fqdns {
			if j == i {
				continue
			}
			values.Mesh.Peers = append(values.Mesh.Peers, fmt.Sprintf("%s:%d", fqdn, MeshPort))
		}

		configAsset := RelayConfigAsset(fleetConstruct, fmt.Sprintf("relay-%d", i), values)
		utils.S3Object{Bucket: configAsset.Bucket(), Key: configAsset.S3ObjectKey()}.GrantRead(fleet.Role)

		node := newNode(fleetConstruct, newNodeInput{
			Index:         i,
			Stage:         stage,
			Region:        region,
			DownloadURL:   props.DownloadURL,
			Role:          fleet.Role,
			SecurityGroup: sgRef,
			KeyPair:       props.KeyPair,
			ConfigAsset:   configAsset,
			Subnet:        publics[i%len(publics)],
			Fqdn:          fqdns[i],
		})

		utils.PublishAddressToSubdomain(fleetConstruct, fqdns[i], props.HostedDomain.Zone, node.ElasticIp.AttrPublicIp())

		fleet.Nodes = append(fleet.Nodes, node)
	}

	return fleet
}

// NodePublicIPs returns the elastic IP tokens of every node, in index order.
func (f *RelayFleet) NodePublicIPs() []*string {
	return lo.Map(f.Nodes, func(n RelayNode, _ int) *string { return n.ElasticIp.AttrPublicIp() })
}

func (f *RelayFleet) buildRole(props *RelayFleetProps) awsiam.IRole {
	role := awsiam.NewRole(f.Construct, jsii.String("FleetRole"), &awsiam.RoleProps{
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("ec2.amazonaws.com"), nil),
	})

	// Session Manager access instead of bastion hosts.
	ssmPolicyArn := "arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"
	if _, err := validation.ParseARN(ssmPolicyArn); err != nil {
		panic(err)
	}
	role.AddManagedPolicy(awsiam.ManagedPolicy_FromManagedPolicyArn(f.Construct, jsii.String("SsmPolicy"), jsii.String(ssmPolicyArn)))

	return role
}

func (f *RelayFleet) buildSecurityGroup(props *RelayFleetProps) awsec2.CfnSecurityGroup {
	rules := props.Fronting.IngressRules()
	rules = append(rules, fronting.IngressSpec{
		Protocol:    awsec2.Protocol_TCP,
		FromPort:    MeshPort,
		ToPort:      MeshPort,
		Source:      *props.Network.Vpc.CidrBlock(),
		Description: "Relay mesh gossip between nodes",
	})
	if props.SshAllowedCidr != "" {
		rules = append(rules, fronting.IngressSpec{
			Protocol:    awsec2.Protocol_TCP,
			FromPort:    22,
			ToPort:      22,
			Source:      props.SshAllowedCidr,
			Description: "Operator SSH",
		})
	}

	return awsec2.NewCfnSecurityGroup(f.Construct, jsii.String("FleetSg"), &awsec2.CfnSecurityGroupProps{
		VpcId:                props.Network.VpcId(),
		GroupDescription:     jsii.String("Relay node security group"),
		SecurityGroupIngress: utils.IngressProperties(rules),
	})
}
