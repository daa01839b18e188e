// Package cdklogger routes synthesis-time diagnostics through CDK construct
// metadata, so messages surface in `cdk synth` output next to the construct
// that produced them.
package cdklogger

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type level int

const (
	levelInfo level = iota
	levelWarning
	levelError
)

// annotate formats the message, prefixing the construct ID unless the scope's
// node path already ends in it.
func annotate(scope constructs.Construct, constructID string, lvl level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if constructID != "" {
		path := *scope.Node().Path()
		if !strings.HasSuffix(path, "/"+constructID) && path != "/"+constructID {
			message = fmt.Sprintf("[%s] %s", constructID, message)
		}
	}
	annotations := awscdk.Annotations_Of(scope)
	switch lvl {
	case levelWarning:
		annotations.AddWarning(jsii.String(message))
	case levelError:
		annotations.AddError(jsii.String(message))
	default:
		annotations.AddInfo(jsii.String(message))
	}
}

// LogInfo adds an INFO message to the construct's metadata.
func LogInfo(scope constructs.Construct, constructID string, format string, args ...interface{}) {
	annotate(scope, constructID, levelInfo, format, args...)
}

// LogWarning adds a WARNING message to the construct's metadata.
func LogWarning(scope constructs.Construct, constructID string, format string, args ...interface{}) {
	annotate(scope, constructID, levelWarning, format, args...)
}

// LogError adds an ERROR message to the construct's metadata. Errors fail the
// synthesis once the app finishes constructing.
func LogError(scope constructs.Construct, constructID string, format string, args ...interface{}) {
	annotate(scope, constructID, levelError, format, args...)
}
