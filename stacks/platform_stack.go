package stacks

import (
	"fmt"
	"sort"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/netforge/infra/config"
	"github.com/netforge/infra/config/alternativedomains"
	domaincfg "github.com/netforge/infra/config/domain"
	"github.com/netforge/infra/lib/cdklogger"
	"github.com/netforge/infra/lib/constructs/fronting"
	"github.com/netforge/infra/lib/constructs/network"
	"github.com/netforge/infra/lib/constructs/relayfleet"
	"github.com/netforge/infra/lib/goasset"
	"github.com/netforge/infra/lib/netmath"
)

// alternativeDomainsConfigPath sits next to cdk.json; a missing file simply
// means no alternative domains for this deployment.
const alternativeDomainsConfigPath = "alternative_domains.yaml"

type PlatformStackProps struct {
	awscdk.StackProps
	CertStackExports *CertStackExports `json:",omitempty"`
	Network          *network.Network
}

// PlatformStack provisions the relay fleet inside the shared VPC and fronts
// it with the edge proxy selected via context.
func PlatformStack(scope constructs.Construct, id string, props *PlatformStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, jsii.String(id), &sprops)
	if !config.IsStackInSynthesis(stack) {
		return stack
	}

	cdkParams := config.NewCDKParams(stack)
	stage := config.DeploymentStage(stack)
	devPrefix := config.GetDevPrefix(stack)
	platformEnv := config.GetEnvironmentVariables[config.PlatformEnvironmentVariables](stack)
	cdklogger.LogInfo(stack, "", "Loaded environment variables for PlatformStack. RELAY_DOWNLOAD_URL=%s, SSH_ALLOWED_CIDR=%q.",
		platformEnv.RelayDownloadUrl, platformEnv.SshAllowedCidr)

	hd := domaincfg.NewHostedDomain(stack, "HostedDomain", &domaincfg.HostedDomainProps{
		Spec: domaincfg.Spec{
			Stage:     domaincfg.StageType(stage),
			Sub:       "",
			DevPrefix: devPrefix,
		},
	})

	selectedKind := config.GetFrontingKind(stack)
	front := fronting.New(selectedKind)

	fleet := relayfleet.NewRelayFleet(stack, "RelayFleet", &relayfleet.RelayFleetProps{
		Network:      props.Network,
		HostedDomain: hd,
		Spec: domaincfg.Spec{
			Stage:     domaincfg.StageType(stage),
			Sub:       "",
			DevPrefix: devPrefix,
		},
		NodeCount:      config.NodeCount(stack),
		Fronting:       front,
		DownloadURL:    platformEnv.RelayDownloadUrl,
		SshAllowedCidr: platformEnv.SshAllowedCidr,
	})

	// The health probe binary ships separately from the relay daemon so
	// operators can fetch a known-good probe onto any node.
	relayCheck := goasset.BundleDir(stack, "RelayCheckAsset", "./cmd/relaycheck")
	relayCheck.GrantRead(fleet.Role)

	// The edge proxy answers on its own label so node records stay reachable
	// individually next to it.
	edgeSpec := domaincfg.Spec{
		Stage:     domaincfg.StageType(stage),
		Sub:       "edge",
		DevPrefix: devPrefix,
	}
	frontProps := &fronting.FrontingProps{
		HostedZone: hd.Zone,
		RecordName: jsii.String(edgeSpec.RecordName()),
		Endpoint:   jsii.String(fleet.Nodes[0].Fqdn),
	}
	switch selectedKind {
	case fronting.KindALB:
		edgeSubnets := network.SubnetIds(props.Network.SubnetsOfKind(netmath.KindPublic))
		frontProps.VpcId = props.Network.VpcId()
		frontProps.SubnetIds = edgeSubnets
		frontProps.TargetIPs = fleet.NodePublicIPs()
		frontProps.TargetPort = 80
	case fronting.KindCloudFront:
		if props.CertStackExports != nil {
			frontProps.ImportedCertificate = props.CertStackExports.DomainCert
		}
	}

	altConfig := loadAlternativeDomains(stack, frontProps)

	result := front.AttachRoutes(stack, "Fronting", frontProps)

	provisionAlternativeDomains(stack, altConfig, result)

	awscdk.NewCfnOutput(stack, jsii.String("RelayEndpoint"), &awscdk.CfnOutputProps{
		Value:       result.FQDN,
		Description: jsii.String("Public FQDN of the relay edge proxy"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("RelayCertArn"), &awscdk.CfnOutputProps{
		Value:       result.Certificate.CertificateArn(),
		Description: jsii.String("ARN of the ACM certificate terminating relay TLS"),
	})
	nodeIps := fleet.NodePublicIPs()
	awscdk.NewCfnOutput(stack, jsii.String("RelayNodeIps"), &awscdk.CfnOutputProps{
		Value:       awscdk.Fn_Join(jsii.String(","), &nodeIps),
		Description: jsii.String("Elastic IPs of the relay nodes, in index order"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("RelayVersionUsed"), &awscdk.CfnOutputProps{
		Value:       cdkParams.RelayVersion.ValueAsString(),
		Description: jsii.String("Relay daemon release tag recorded for this deployment"),
	})

	return stack
}

// loadAlternativeDomains reads the per-suffix alternative domain config and
// appends the SAN entries the certificate must carry. Returns nil when the
// deployment has no alternatives.
func loadAlternativeDomains(stack awscdk.Stack, frontProps *fronting.FrontingProps) *alternativedomains.StackSuffixConfig {
	cfg, err := alternativedomains.LoadConfig(alternativeDomainsConfigPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load alternative domains config: %v", err))
	}
	stackCfg := alternativedomains.GetConfigForStack(stack, cfg)
	if stackCfg == nil {
		return nil
	}
	appendAlternativeSANs(stack, stackCfg, frontProps)
	return stackCfg
}

// appendAlternativeSANs adds each alternative FQDN that needs a TLS SAN to the
// fronting props.
func appendAlternativeSANs(stack awscdk.Stack, stackCfg *alternativedomains.StackSuffixConfig, frontProps *fronting.FrontingProps) {
	// Sorted so the certificate's SAN list stays stable between synths.
	fqdns := make([]string, 0, len(stackCfg.Alternatives))
	for fqdn := range stackCfg.Alternatives {
		fqdns = append(fqdns, fqdn)
	}
	sort.Strings(fqdns)
	for _, fqdn := range fqdns {
		mapping := stackCfg.Alternatives[fqdn]
		if !mapping.RequiresTlsSanOrDefault() {
			continue
		}
		if frontProps.ImportedCertificate != nil {
			// An already-issued certificate cannot gain SANs; the record
			// still gets created, it just serves the imported cert's names.
			cdklogger.LogWarning(stack, "", "Alternative domain %s requires a TLS SAN but the certificate is imported; skipping SAN.", fqdn)
			continue
		}
		frontProps.AdditionalSANs = append(frontProps.AdditionalSANs, jsii.String(fqdn))
	}
}

// provisionAlternativeDomains points each configured alternative FQDN at the
// fronting endpoint via a CNAME in the alternative hosted zone.
func provisionAlternativeDomains(stack awscdk.Stack, stackCfg *alternativedomains.StackSuffixConfig, result fronting.FrontingResult) {
	if stackCfg == nil {
		return
	}

	altZone := awsroute53.HostedZone_FromLookup(stack, jsii.String("AltZone"), &awsroute53.HostedZoneProviderProps{
		DomainName: jsii.String(stackCfg.AlternativeHostedZoneDomain),
	})
	// Sorted so construct ids stay stable between synths.
	fqdns := make([]string, 0, len(stackCfg.Alternatives))
	for fqdn := range stackCfg.Alternatives {
		fqdns = append(fqdns, fqdn)
	}
	sort.Strings(fqdns)
	for i, fqdn := range fqdns {
		awsroute53.NewCnameRecord(stack, jsii.Sprintf("AltDomain-%d", i), &awsroute53.CnameRecordProps{
			Zone:       altZone,
			RecordName: jsii.String(fqdn),
			DomainName: result.FQDN,
		})
		cdklogger.LogInfo(stack, "", "Alternative domain %s aliased to %s.", fqdn, *result.FQDN)
	}
}
