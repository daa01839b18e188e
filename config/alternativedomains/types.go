package alternativedomains

// AlternativeMapping defines the target for a specific alternative FQDN.
type AlternativeMapping struct {
	// TargetComponentId is the logical ID of the component this FQDN points
	// to. Must match an ID registered in the stack's resource target map.
	TargetComponentId string `yaml:"targetComponentId"`
	// RequiresTlsSan specifies if a TLS SAN entry is needed. Defaults to
	// true; pointer distinguishes explicitly false from not set.
	RequiresTlsSan *bool `yaml:"requiresTlsSan,omitempty"`
}

// RequiresTlsSanOrDefault returns RequiresTlsSan, defaulting to true.
func (m *AlternativeMapping) RequiresTlsSanOrDefault() bool {
	if m.RequiresTlsSan == nil {
		return true
	}
	return *m.RequiresTlsSan
}

// StackSuffixConfig holds the configuration for a specific stack suffix.
type StackSuffixConfig struct {
	// AlternativeHostedZoneDomain is the domain (e.g. "netforge.network")
	// where the alternative A records will be created.
	AlternativeHostedZoneDomain string `yaml:"alternativeHostedZoneDomain"`
	// Alternatives maps an alternative FQDN to its target configuration.
	Alternatives map[string]AlternativeMapping `yaml:"alternatives"`
}

// AlternativeDomainConfig is the root structure of the configuration file,
// keyed by stack suffix (e.g. "mainnet", "testnet").
type AlternativeDomainConfig map[string]StackSuffixConfig
