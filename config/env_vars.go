package config

import (
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/caarlos0/env/v11"
)

// PlatformEnvironmentVariables configures the platform stack from the
// deploying shell.
type PlatformEnvironmentVariables struct {
	// RelayDownloadUrl is where the nodes fetch the relay daemon binary.
	RelayDownloadUrl string `env:"RELAY_DOWNLOAD_URL" required:"true"`
	// SshAllowedCidr opens SSH on the relay nodes to this range. Empty
	// leaves SSH closed.
	SshAllowedCidr string `env:"SSH_ALLOWED_CIDR"`
}

// AuditEnvironmentVariables configures the audit stack.
type AuditEnvironmentVariables struct {
	// ReportBucketName overrides the generated audit report bucket name.
	ReportBucketName string `env:"AUDIT_REPORT_BUCKET"`
}

// GetEnvironmentVariables parses T from the process environment. Outside of
// synthesis (e.g. in tests) it returns the zero value so required variables
// do not have to be present.
func GetEnvironmentVariables[T any](scope constructs.Construct) T {
	var envObj T

	if !IsStackInSynthesis(scope) {
		return envObj
	}

	if err := env.Parse(&envObj); err != nil {
		panic(err)
	}

	return envObj
}
