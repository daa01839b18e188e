package relayfleet

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/netforge/infra/config/relay"
	"github.com/netforge/infra/lib/utils"
	"github.com/netforge/infra/scripts/renderer"
)

// RelayConfigAsset renders the daemon TOML for one node and stages it as an
// S3 asset so cloud-init can place it on the instance.
func RelayConfigAsset(scope constructs.Construct, id string, values relay.Values) awss3assets.Asset {
	rendered, err := renderer.Render(renderer.TplRelayConfig, values.RenderData())
	if err != nil {
		panic(fmt.Errorf("rendering relay config for %s: %w", id, err))
	}

	path := utils.WriteToTempFile(id+"-relay.toml", []byte(rendered))
	return awss3assets.NewAsset(scope, jsii.String(id+"ConfigAsset"), &awss3assets.AssetProps{
		Path: path,
	})
}
