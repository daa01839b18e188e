// Package relay holds the configuration values rendered into the relay
// daemon's TOML config file.
package relay

import "github.com/netforge/infra/scripts/renderer"

// NodeConfig holds per-node settings.
type NodeConfig struct {
	Name          string `toml:"name"`
	ListenAddress string `toml:"listen"`
	DataDir       string `toml:"data_dir"`
}

// MeshConfig holds mesh membership configuration.
type MeshConfig struct {
	Region string   `toml:"region"`
	Peers  []string `toml:"peers"`
}

// LimitsConfig holds connection limits.
type LimitsConfig struct {
	MaxStreams         int `toml:"max_streams"`
	IdleTimeoutSeconds int `toml:"idle_timeout_seconds"`
}

// Values is the complete data set behind the relay_config template.
type Values struct {
	Node   NodeConfig   `toml:"node"`
	Mesh   MeshConfig   `toml:"mesh"`
	Limits LimitsConfig `toml:"limits"`
}

// NewDefaultValues returns Values populated with the defaults the template
// assumes. Node name, region and peers are node-specific and set later.
func NewDefaultValues() Values {
	return Values{
		Node: NodeConfig{
			ListenAddress: "0.0.0.0:80",
			DataDir:       "/data/relay",
		},
		Mesh: MeshConfig{
			Peers: []string{},
		},
		Limits: LimitsConfig{
			MaxStreams:         1024,
			IdleTimeoutSeconds: 300,
		},
	}
}

// RenderData converts Values into the renderer's input shape.
func (v Values) RenderData() renderer.RelayConfigData {
	return renderer.RelayConfigData{
		NodeName:           v.Node.Name,
		ListenAddress:      v.Node.ListenAddress,
		DataDir:            v.Node.DataDir,
		Region:             v.Mesh.Region,
		Peers:              v.Mesh.Peers,
		MaxStreams:         v.Limits.MaxStreams,
		IdleTimeoutSeconds: v.Limits.IdleTimeoutSeconds,
	}
}
