package fronting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseKind_Invalid ensures that an unrecognized kind returns an error.
func TestParseKind_Invalid(t *testing.T) {
	_, err := ParseKind("typo")
	require.Error(t, err)
	require.ErrorContains(t, err, "invalid fronting type")
}

// TestParseKind_Valid ensures that valid kinds are parsed correctly.
func TestParseKind_Valid(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  Kind
	}{
		{string(KindAPI), KindAPI},
		{"API", KindAPI}, // case normalization
		{" alb ", KindALB},
		{string(KindCloudFront), KindCloudFront},
	} {
		k, err := ParseKind(tc.input)
		require.NoError(t, err)
		require.Equal(t, tc.want, k, "Input: %s", tc.input)
	}
}

func TestIngressSpecValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		spec IngressSpec
		ok   bool
	}{
		{"ipv4 cidr", IngressSpec{FromPort: 80, ToPort: 80, Source: "0.0.0.0/0"}, true},
		{"ipv6 cidr", IngressSpec{FromPort: 443, ToPort: 443, Source: "::/0"}, true},
		{"prefix list", IngressSpec{FromPort: 443, ToPort: 443, Source: "pl-68a54001"}, true},
		{"bare address", IngressSpec{FromPort: 80, ToPort: 80, Source: "10.0.0.1"}, false},
		{"inverted range", IngressSpec{FromPort: 443, ToPort: 80, Source: "0.0.0.0/0"}, false},
		{"garbage", IngressSpec{FromPort: 80, ToPort: 80, Source: "everywhere"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

// Every implementation must only declare sources the validator accepts.
func TestAllKindsDeclareValidIngress(t *testing.T) {
	for _, kind := range []Kind{KindAPI, KindALB, KindCloudFront} {
		for _, rule := range New(kind).IngressRules() {
			require.NoError(t, rule.Validate(), "kind %s rule %q", kind, rule.Description)
		}
	}
}
