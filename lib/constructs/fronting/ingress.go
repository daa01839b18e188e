package fronting

import (
	"fmt"
	"net"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"

	"github.com/netforge/infra/lib/netmath"
)

// IngressSpec defines one security group rule that a fronting plugin requires.
type IngressSpec struct {
	// Protocol (e.g. awsec2.Protocol_TCP)
	Protocol awsec2.Protocol
	// FromPort is the starting port number for the rule.
	FromPort float64
	// ToPort is the ending port number for the rule.
	ToPort float64
	// Source is an IPv4 CIDR ("0.0.0.0/0"), an IPv6 CIDR ("::/0"), or an
	// AWS-managed prefix list ID ("pl-...").
	Source string
	// Description annotates the rule.
	Description string
}

// Validate checks that the source and port range are well formed.
func (s IngressSpec) Validate() error {
	if s.FromPort < 0 || s.ToPort > 65535 || s.FromPort > s.ToPort {
		return fmt.Errorf("invalid port range %v-%v", s.FromPort, s.ToPort)
	}
	if strings.HasPrefix(s.Source, "pl-") {
		return nil
	}
	if _, err := netmath.ParseBlock(s.Source); err == nil {
		return nil
	}
	if ip, _, err := net.ParseCIDR(s.Source); err == nil && ip.To4() == nil {
		return nil
	}
	return fmt.Errorf("ingress source %q is neither a CIDR nor a prefix list ID", s.Source)
}
