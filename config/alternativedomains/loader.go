// Package alternativedomains lets a deployment serve under extra domains
// beyond the platform's own hosted zone, configured per stack suffix in a
// YAML file checked in next to cdk.json.
package alternativedomains

import (
	"fmt"
	"os"

	"github.com/aws/constructs-go/constructs/v10"
	"gopkg.in/yaml.v3"

	infraCfg "github.com/netforge/infra/config"
)

// LoadConfig reads the alternative domains configuration from the given YAML
// file. A missing file is not an error; it just means no alternatives.
func LoadConfig(filePath string) (*AlternativeDomainConfig, error) {
	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading alternative domains config file %s: %w", filePath, err)
	}

	var config AlternativeDomainConfig
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling alternative domains config from %s: %w", filePath, err)
	}

	return &config, nil
}

// GetConfigForStack retrieves the StackSuffixConfig for the current stack's
// suffix. Returns nil if no config was loaded or none exists for the suffix.
func GetConfigForStack(scope constructs.Construct, cfg *AlternativeDomainConfig) *StackSuffixConfig {
	if cfg == nil {
		return nil
	}

	stackSuffix := infraCfg.StackSuffix(scope)
	if stackConfig, ok := (*cfg)[stackSuffix]; ok {
		return &stackConfig
	}

	return nil
}
