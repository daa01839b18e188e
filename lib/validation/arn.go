// Package validation gathers the AWS-specific constraint checks shared by the
// construct packages: ARN formats, resource naming limits, and property-bag
// rules such as mutually exclusive options.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidARN = errors.New("invalid ARN")
)

// ARN is the decomposed form of an Amazon Resource Name:
// arn:partition:service:region:account-id:resource.
type ARN struct {
	Partition string
	Service   string
	Region    string
	AccountID string
	Resource  string
}

var knownPartitions = map[string]bool{
	"aws":        true,
	"aws-cn":     true,
	"aws-us-gov": true,
}

// ParseARN splits an ARN string into its components. Region and account may
// be empty (S3 ARNs, IAM ARNs); partition, service and resource may not.
func ParseARN(s string) (ARN, error) {
	parts := strings.SplitN(s, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" {
		return ARN{}, fmt.Errorf("%w: %q", ErrInvalidARN, s)
	}
	a := ARN{
		Partition: parts[1],
		Service:   parts[2],
		Region:    parts[3],
		AccountID: parts[4],
		Resource:  parts[5],
	}
	if !knownPartitions[a.Partition] {
		return ARN{}, fmt.Errorf("%w: unknown partition %q in %q", ErrInvalidARN, a.Partition, s)
	}
	if a.Service == "" || a.Resource == "" {
		return ARN{}, fmt.Errorf("%w: %q", ErrInvalidARN, s)
	}
	// "aws" is the pseudo-account of AWS-managed resources (managed policies).
	if a.AccountID != "" && a.AccountID != "aws" && !isAccountID(a.AccountID) {
		return ARN{}, fmt.Errorf("%w: account %q in %q", ErrInvalidARN, a.AccountID, s)
	}
	return a, nil
}

// String reassembles the ARN.
func (a ARN) String() string {
	return strings.Join([]string{"arn", a.Partition, a.Service, a.Region, a.AccountID, a.Resource}, ":")
}

// IsARN reports whether s parses as an ARN.
func IsARN(s string) bool {
	_, err := ParseARN(s)
	return err == nil
}

func isAccountID(s string) bool {
	if len(s) != 12 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
