package relay

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netforge/infra/scripts/renderer"
)

func TestRenderRelayConfigRoundTrip(t *testing.T) {
	values := NewDefaultValues()
	values.Node.Name = "relay-1"
	values.Mesh.Region = "eu-west-1"
	values.Mesh.Peers = []string{"relay-0.relay.netforge.network:7946"}

	rendered, err := renderer.Render(renderer.TplRelayConfig, values.RenderData())
	require.NoError(t, err, "Failed to render relay config template")
	t.Logf("Rendered TOML:\n%s", rendered)

	// The rendered file has to decode back into the same Values.
	var decoded Values
	_, err = toml.Decode(rendered, &decoded)
	require.NoError(t, err, "Failed to parse rendered TOML")

	assert.Equal(t, values, decoded)
}

func TestDefaultsDecodeEmptyPeers(t *testing.T) {
	values := NewDefaultValues()
	values.Node.Name = "relay-0"
	values.Mesh.Region = "us-east-1"

	rendered, err := renderer.Render(renderer.TplRelayConfig, values.RenderData())
	require.NoError(t, err)
	assert.Contains(t, rendered, "peers = []")

	var decoded Values
	_, err = toml.Decode(rendered, &decoded)
	require.NoError(t, err)
	assert.Empty(t, decoded.Mesh.Peers)
	assert.Equal(t, 1024, decoded.Limits.MaxStreams)
}
