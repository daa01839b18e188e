package renderer

// TemplateName represents a known template filename.
type TemplateName string

// Constants for known template filenames.
const (
	TplInstallRelay TemplateName = "install_relay.sh.tmpl"
	TplRelayStartup TemplateName = "relay_startup.sh.tmpl"
	TplRelayConfig  TemplateName = "relay_config.toml.tmpl"
)

// InstallRelayData holds the data required by the TplInstallRelay template.
type InstallRelayData struct {
	DownloadURL string
	// BinaryPath overrides the install location; empty picks the default.
	BinaryPath string
}

// RelayStartupData holds the data required by the TplRelayStartup template.
type RelayStartupData struct {
	Region      string
	DataDirPath string
	EnvVars     map[string]string
	// SortedEnvKeys gives a deterministic iteration order over EnvVars.
	SortedEnvKeys []string
}

// RelayConfigData holds the data required by the TplRelayConfig template.
// Defined locally rather than importing the config package to avoid a cycle.
type RelayConfigData struct {
	NodeName           string
	ListenAddress      string
	DataDir            string
	Region             string
	Peers              []string
	MaxStreams         int
	IdleTimeoutSeconds int
}
