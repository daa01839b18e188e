// Package renderer loads embedded templates under scripts/renderer/templates/
// and renders them with sprig functions.
//
// It exists so that raw user-data Bash scripts and daemon configuration for
// the relay nodes live as separate, easily readable `.tmpl` files outside of
// Go string literals.
//
// Example:
//
//	script, err := renderer.Render(renderer.TplInstallRelay, renderer.InstallRelayData{
//	    DownloadURL: "https://releases.netforge.example.com/relay/v1.4.2/relay-linux-amd64",
//	})
package renderer
