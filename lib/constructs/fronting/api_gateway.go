package fronting

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2integrations"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	provider "github.com/netforge/infra/lib/cert/provider"
)

// apiGateway fronts the relay fleet with an HTTP API. It is the default
// choice: pay-per-request pricing suits stages that idle most of the time,
// TLS upload and renewal is handled by the service, and throttling comes
// built in. Its limits (10 MB bodies, 29 s idle timeout, no WebSockets)
// do not matter for relay control traffic. Busy always-hot stages graduate
// to ALB; globally distributed read traffic goes through CloudFront.
type apiGateway struct{}

func (a *apiGateway) AttachRoutes(scope constructs.Construct, id string, props *FrontingProps) FrontingResult {
	if props.Endpoint == nil || *props.Endpoint == "" {
		panic(fmt.Sprintf("Endpoint is required for apiGateway construct %s", id))
	}

	httpApi := awsapigatewayv2.NewHttpApi(scope, jsii.String(id+"HttpApi"), &awsapigatewayv2.HttpApiProps{
		ApiName: jsii.String(id + "HttpApi"),
	})

	endpointUrl := "http://" + *props.Endpoint
	integration := awsapigatewayv2integrations.NewHttpUrlIntegration(
		jsii.String(id+"Integration"),
		jsii.String(endpointUrl),
		&awsapigatewayv2integrations.HttpUrlIntegrationProps{
			Method: awsapigatewayv2.HttpMethod_ANY,
			ParameterMapping: awsapigatewayv2.NewParameterMapping().
				AppendHeader(jsii.String("path"), awsapigatewayv2.MappingValue_ContextVariable(jsii.String("request.path"))),
		},
	)

	httpApi.AddRoutes(&awsapigatewayv2.AddRoutesOptions{
		Path:        jsii.String("/{proxy+}"),
		Methods:     &[]awsapigatewayv2.HttpMethod{awsapigatewayv2.HttpMethod_ANY},
		Integration: integration,
	})

	fqdn := resolveFqdn(id, props)

	cert := certificateFor(scope, id+"Cert", props, provider.ScopeRegion, fqdn)

	domainName := awsapigatewayv2.NewDomainName(scope, jsii.String(id+"DomainName"), &awsapigatewayv2.DomainNameProps{
		DomainName:  jsii.String(fqdn),
		Certificate: cert,
	})

	awsapigatewayv2.NewApiMapping(scope, jsii.String(id+"ApiMapping"), &awsapigatewayv2.ApiMappingProps{
		Api:        httpApi,
		DomainName: domainName,
	})

	awsroute53.NewARecord(scope, jsii.String(id+"ARecord"), &awsroute53.ARecordProps{
		Zone:       props.HostedZone,
		RecordName: props.RecordName,
		Target: awsroute53.RecordTarget_FromAlias(
			awsroute53targets.NewApiGatewayv2DomainProperties(
				domainName.RegionalDomainName(),
				domainName.RegionalHostedZoneId(),
			),
		),
	})

	return FrontingResult{
		FQDN:        jsii.String(fqdn),
		Certificate: cert,
	}
}

// IngressRules returns the openings the relay nodes need behind an HTTP API.
func (a *apiGateway) IngressRules() []IngressSpec {
	return []IngressSpec{
		{
			Protocol:    awsec2.Protocol_TCP,
			FromPort:    80,
			ToPort:      80,
			Source:      "0.0.0.0/0",
			Description: "Allow HTTP from API Gateway",
		},
	}
}

// resolveFqdn joins the record name with the zone name. A missing record
// name is a misconfiguration and panics.
func resolveFqdn(id string, props *FrontingProps) string {
	if props.RecordName == nil || *props.RecordName == "" {
		panic(fmt.Sprintf("RecordName is required for fronting construct %s", id))
	}
	return *props.RecordName + "." + *props.HostedZone.ZoneName()
}
