package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidName = errors.New("invalid resource name")

// NameRule captures one service's naming constraint.
type NameRule struct {
	MinLen  int
	MaxLen  int
	Pattern *regexp.Regexp
	// NoHyphenEdges forbids a leading/trailing hyphen (ELB family rule).
	NoHyphenEdges bool
	// ForbiddenPrefix rejects reserved prefixes such as "internal-" or "sg-".
	ForbiddenPrefix string
}

var (
	alnumHyphen      = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	launchTplCharset = regexp.MustCompile(`^[a-zA-Z0-9().\-/_]+$`)
	sgCharset        = regexp.MustCompile(`^[a-zA-Z0-9 ._\-:/()#,@\[\]+=&;{}!$*]+$`)
	keyPairCharset   = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)
)

// Naming limits as enforced by the EC2/ELB APIs. Kept here so every construct
// fails at synth time instead of at deploy time.
var (
	LoadBalancerName   = NameRule{MinLen: 1, MaxLen: 32, Pattern: alnumHyphen, NoHyphenEdges: true, ForbiddenPrefix: "internal-"}
	TargetGroupName    = NameRule{MinLen: 1, MaxLen: 32, Pattern: alnumHyphen, NoHyphenEdges: true}
	SecurityGroupName  = NameRule{MinLen: 1, MaxLen: 255, Pattern: sgCharset, ForbiddenPrefix: "sg-"}
	LaunchTemplateName = NameRule{MinLen: 3, MaxLen: 128, Pattern: launchTplCharset}
	KeyPairName        = NameRule{MinLen: 1, MaxLen: 255, Pattern: keyPairCharset}
)

// Check validates a name against the rule, returning a descriptive error.
func (r NameRule) Check(kind, name string) error {
	if len(name) < r.MinLen || len(name) > r.MaxLen {
		return fmt.Errorf("%w: %s name %q must be %d-%d characters, got %d",
			ErrInvalidName, kind, name, r.MinLen, r.MaxLen, len(name))
	}
	if r.Pattern != nil && !r.Pattern.MatchString(name) {
		return fmt.Errorf("%w: %s name %q contains characters outside %s",
			ErrInvalidName, kind, name, r.Pattern)
	}
	if r.NoHyphenEdges && (strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-")) {
		return fmt.Errorf("%w: %s name %q must not begin or end with a hyphen", ErrInvalidName, kind, name)
	}
	if r.ForbiddenPrefix != "" && strings.HasPrefix(name, r.ForbiddenPrefix) {
		return fmt.Errorf("%w: %s name %q must not start with %q", ErrInvalidName, kind, name, r.ForbiddenPrefix)
	}
	return nil
}
