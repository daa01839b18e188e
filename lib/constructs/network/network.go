// Package network models a fully laid-out VPC: subnet groups replicated per
// availability zone, routing, gateways and endpoints. The construct is a thin
// mapping from these props onto Cfn-level EC2 resources; all address
// arithmetic lives in lib/netmath.
package network

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/netforge/infra/lib/cdklogger"
	"github.com/netforge/infra/lib/netmath"
	"github.com/netforge/infra/lib/validation"
)

// SubnetGroup declares one named set of subnets replicated across AZs.
type SubnetGroup struct {
	Name string
	Kind netmath.SubnetKind
	// CidrMask is the prefix length per subnet; zero lets the group share
	// the space left over after all sized groups.
	CidrMask int
}

// NetworkProps configures a Network.
type NetworkProps struct {
	// CidrBlock is the VPC IPv4 range, e.g. "10.0.0.0/16".
	CidrBlock string `validate:"required,cidrv4"`
	// Ipv6CidrBlock optionally associates a BYOIP IPv6 block (/56 or
	// shorter) and gives every subnet a /64 out of it.
	Ipv6CidrBlock string `validate:"omitempty,cidrv6"`
	// MaxAzs is how many availability zones to spread subnets over.
	MaxAzs int `validate:"required,min=1,max=6"`
	// NatGateways is the number of NAT gateways (0..MaxAzs). Private
	// subnets in AZs beyond the count share the last gateway.
	NatGateways  int           `validate:"min=0"`
	SubnetGroups []SubnetGroup `validate:"required,min=1"`
	// GatewayEndpoints lists gateway endpoint services ("s3", "dynamodb")
	// wired into the private and isolated route tables.
	GatewayEndpoints []string
	// InterfaceEndpoints lists interface endpoint services placed in the
	// private subnets.
	InterfaceEndpoints []string
	// FlowLogs enables VPC flow logs into a CloudWatch log group.
	FlowLogs bool
}

// Subnet is one provisioned subnet with its plan entry.
type Subnet struct {
	Group   string
	Kind    netmath.SubnetKind
	AzIndex int
	Block   netmath.Block
	Cfn     awsec2.CfnSubnet
}

// Network is the provisioned VPC with its subnets and gateways.
type Network struct {
	constructs.Construct
	Vpc             awsec2.CfnVPC
	InternetGateway awsec2.CfnInternetGateway
	NatGateways     []awsec2.CfnNatGateway
	Subnets         []Subnet
	Plan            []netmath.PlannedSubnet

	azs                []*string
	publicRouteTable   awsec2.CfnRouteTable
	privateRouteTables []awsec2.CfnRouteTable // indexed by AZ
	isolatedRouteTable awsec2.CfnRouteTable
}

// NewNetwork lays out and provisions the VPC described by props. Invalid
// props panic: a network that cannot be laid out must fail the synthesis.
func NewNetwork(scope constructs.Construct, id string, props *NetworkProps) *Network {
	this := constructs.NewConstruct(scope, &id)

	if err := validation.Struct(props); err != nil {
		panic(fmt.Errorf("network %s: %w", id, err))
	}
	base := netmath.MustParseBlock(props.CidrBlock)
	groups := lo.Map(props.SubnetGroups, func(g SubnetGroup, _ int) netmath.GroupSpec {
		return netmath.GroupSpec{Name: g.Name, Kind: g.Kind, Prefix: g.CidrMask}
	})
	plan, err := netmath.PlanSubnets(base, props.MaxAzs, groups)
	if err != nil {
		panic(fmt.Errorf("network %s: %w", id, err))
	}
	if props.NatGateways > props.MaxAzs {
		panic(fmt.Errorf("network %s: %d NAT gateways for %d AZs", id, props.NatGateways, props.MaxAzs))
	}
	hasPublic := lo.SomeBy(plan, func(p netmath.PlannedSubnet) bool { return p.Kind == netmath.KindPublic })
	if props.NatGateways > 0 && !hasPublic {
		panic(fmt.Errorf("network %s: NAT gateways need a public subnet group", id))
	}

	n := &Network{Construct: this, Plan: plan}

	n.Vpc = awsec2.NewCfnVPC(this, jsii.String("Vpc"), &awsec2.CfnVPCProps{
		CidrBlock:          jsii.String(base.String()),
		EnableDnsSupport:   jsii.Bool(true),
		EnableDnsHostnames: jsii.Bool(true),
	})

	var ipv6Assoc awsec2.CfnVPCCidrBlock
	var ipv6Subnets []netmath.Block6
	if props.Ipv6CidrBlock != "" {
		block6, _ := netmath.ParseBlock6(props.Ipv6CidrBlock)
		ipv6Subnets, err = block6.SixtyFours(len(plan))
		if err != nil {
			panic(fmt.Errorf("network %s: %w", id, err))
		}
		ipv6Assoc = awsec2.NewCfnVPCCidrBlock(this, jsii.String("Ipv6Block"), &awsec2.CfnVPCCidrBlockProps{
			VpcId:         n.Vpc.Ref(),
			Ipv6CidrBlock: jsii.String(block6.String()),
		})
	}

	azs := awscdk.Stack_Of(this).AvailabilityZones()
	n.azs = (*azs)[:props.MaxAzs]

	for i, p := range plan {
		subnetID := fmt.Sprintf("%s-az%d", p.Group, p.AzIndex)
		cfnProps := &awsec2.CfnSubnetProps{
			VpcId:            n.Vpc.Ref(),
			CidrBlock:        jsii.String(p.Block.String()),
			AvailabilityZone: (*azs)[p.AzIndex],
		}
		if p.Kind == netmath.KindPublic {
			cfnProps.MapPublicIpOnLaunch = jsii.Bool(true)
		}
		if ipv6Assoc != nil {
			cfnProps.Ipv6CidrBlock = jsii.String(ipv6Subnets[i].String())
		}
		subnet := awsec2.NewCfnSubnet(this, jsii.String(subnetID), cfnProps)
		if ipv6Assoc != nil {
			subnet.AddDependency(ipv6Assoc)
		}
		n.Subnets = append(n.Subnets, Subnet{
			Group: p.Group, Kind: p.Kind, AzIndex: p.AzIndex, Block: p.Block, Cfn: subnet,
		})
	}

	n.buildRouting(props)
	n.buildEndpoints(props)
	if props.FlowLogs {
		n.buildFlowLogs()
	}
	if props.NatGateways == 0 && len(n.SubnetsOfKind(netmath.KindPrivate)) > 0 {
		cdklogger.LogWarning(this, id, "private subnets have no NAT gateway; instances there get no outbound internet access")
	}

	return n
}

// buildRouting attaches the IGW, allocates NAT gateways and wires the route
// tables: one shared table for public subnets, one per AZ for private
// subnets, one shared table (no routes) for isolated subnets.
func (n *Network) buildRouting(props *NetworkProps) {
	publics := n.SubnetsOfKind(netmath.KindPublic)

	if len(publics) > 0 {
		n.InternetGateway = awsec2.NewCfnInternetGateway(n.Construct, jsii.String("Igw"), &awsec2.CfnInternetGatewayProps{})
		attachment := awsec2.NewCfnVPCGatewayAttachment(n.Construct, jsii.String("IgwAttachment"), &awsec2.CfnVPCGatewayAttachmentProps{
			VpcId:             n.Vpc.Ref(),
			InternetGatewayId: n.InternetGateway.Ref(),
		})

		n.publicRouteTable = awsec2.NewCfnRouteTable(n.Construct, jsii.String("PublicRt"), &awsec2.CfnRouteTableProps{
			VpcId: n.Vpc.Ref(),
		})
		defaultRoute := awsec2.NewCfnRoute(n.Construct, jsii.String("PublicDefaultRoute"), &awsec2.CfnRouteProps{
			RouteTableId:         n.publicRouteTable.Ref(),
			DestinationCidrBlock: jsii.String("0.0.0.0/0"),
			GatewayId:            n.InternetGateway.Ref(),
		})
		defaultRoute.AddDependency(attachment)
		if props.Ipv6CidrBlock != "" {
			awsec2.NewCfnRoute(n.Construct, jsii.String("PublicDefaultRoute6"), &awsec2.CfnRouteProps{
				RouteTableId:             n.publicRouteTable.Ref(),
				DestinationIpv6CidrBlock: jsii.String("::/0"),
				GatewayId:                n.InternetGateway.Ref(),
			}).AddDependency(attachment)
		}
		for _, s := range publics {
			n.associate(s, n.publicRouteTable)
		}

		// One NAT gateway per AZ up to the requested count, each in the
		// first public subnet of its AZ.
		for az := 0; az < props.NatGateways; az++ {
			host, found := lo.Find(publics, func(s Subnet) bool { return s.AzIndex == az })
			if !found {
				panic(fmt.Errorf("no public subnet in AZ %d to host a NAT gateway", az))
			}
			eip := awsec2.NewCfnEIP(n.Construct, jsii.Sprintf("NatEip%d", az), &awsec2.CfnEIPProps{
				Domain: jsii.String("vpc"),
			})
			nat := awsec2.NewCfnNatGateway(n.Construct, jsii.Sprintf("Nat%d", az), &awsec2.CfnNatGatewayProps{
				SubnetId:     host.Cfn.Ref(),
				AllocationId: eip.AttrAllocationId(),
			})
			nat.AddDependency(attachment)
			n.NatGateways = append(n.NatGateways, nat)
		}
	}

	privates := n.SubnetsOfKind(netmath.KindPrivate)
	if len(privates) > 0 {
		var eigw awsec2.CfnEgressOnlyInternetGateway
		if props.Ipv6CidrBlock != "" {
			eigw = awsec2.NewCfnEgressOnlyInternetGateway(n.Construct, jsii.String("EgressOnlyIgw"), &awsec2.CfnEgressOnlyInternetGatewayProps{
				VpcId: n.Vpc.Ref(),
			})
		}
		n.privateRouteTables = make([]awsec2.CfnRouteTable, props.MaxAzs)
		for az := 0; az < props.MaxAzs; az++ {
			rt := awsec2.NewCfnRouteTable(n.Construct, jsii.Sprintf("PrivateRt%d", az), &awsec2.CfnRouteTableProps{
				VpcId: n.Vpc.Ref(),
			})
			n.privateRouteTables[az] = rt
			if len(n.NatGateways) > 0 {
				nat := n.NatGateways[min(az, len(n.NatGateways)-1)]
				awsec2.NewCfnRoute(n.Construct, jsii.Sprintf("PrivateDefaultRoute%d", az), &awsec2.CfnRouteProps{
					RouteTableId:         rt.Ref(),
					DestinationCidrBlock: jsii.String("0.0.0.0/0"),
					NatGatewayId:         nat.Ref(),
				})
			}
			if eigw != nil {
				awsec2.NewCfnRoute(n.Construct, jsii.Sprintf("PrivateDefaultRoute6%d", az), &awsec2.CfnRouteProps{
					RouteTableId:                rt.Ref(),
					DestinationIpv6CidrBlock:    jsii.String("::/0"),
					EgressOnlyInternetGatewayId: eigw.Ref(),
				})
			}
		}
		for _, s := range privates {
			n.associate(s, n.privateRouteTables[s.AzIndex])
		}
	}

	isolated := n.SubnetsOfKind(netmath.KindIsolated)
	if len(isolated) > 0 {
		n.isolatedRouteTable = awsec2.NewCfnRouteTable(n.Construct, jsii.String("IsolatedRt"), &awsec2.CfnRouteTableProps{
			VpcId: n.Vpc.Ref(),
		})
		for _, s := range isolated {
			n.associate(s, n.isolatedRouteTable)
		}
	}
}

func (n *Network) associate(s Subnet, rt awsec2.CfnRouteTable) {
	awsec2.NewCfnSubnetRouteTableAssociation(n.Construct, jsii.Sprintf("%s-az%d-assoc", s.Group, s.AzIndex), &awsec2.CfnSubnetRouteTableAssociationProps{
		SubnetId:     s.Cfn.Ref(),
		RouteTableId: rt.Ref(),
	})
}

// SubnetsOfKind returns the subnets of one role, in plan order.
func (n *Network) SubnetsOfKind(kind netmath.SubnetKind) []Subnet {
	return lo.Filter(n.Subnets, func(s Subnet, _ int) bool { return s.Kind == kind })
}

// SubnetsOfGroup returns the subnets of one named group, in AZ order.
func (n *Network) SubnetsOfGroup(name string) []Subnet {
	return lo.Filter(n.Subnets, func(s Subnet, _ int) bool { return s.Group == name })
}

// SubnetIds returns the Ref tokens of the given subnets.
func SubnetIds(subnets []Subnet) []*string {
	return lo.Map(subnets, func(s Subnet, _ int) *string { return s.Cfn.Ref() })
}

// VpcId returns the Ref token of the VPC.
func (n *Network) VpcId() *string { return n.Vpc.Ref() }

// Azs returns the availability zone tokens the subnets span, in AZ order.
func (n *Network) Azs() []*string { return n.azs }

// routeTablesForEndpoints collects the private and isolated route tables,
// which is where gateway endpoints matter.
func (n *Network) routeTablesForEndpoints() []*string {
	var out []*string
	for _, rt := range n.privateRouteTables {
		if rt != nil {
			out = append(out, rt.Ref())
		}
	}
	if n.isolatedRouteTable != nil {
		out = append(out, n.isolatedRouteTable.Ref())
	}
	return out
}
