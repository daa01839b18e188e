// Package buildcmd assembles the go build invocation for goasset. Split out
// of the parent package so the options type can be shared without a cycle.
package buildcmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Options configure the Go asset bundling process.
type Options struct {
	// SrcPath is the path to the Go source directory or file to build.
	SrcPath string
	// OutName is the desired name of the executable artifact within the asset.
	OutName string
	// IsTest indicates a test binary build (`go test -c`).
	IsTest bool
	// ExtraEnv defines additional environment variables for the build.
	ExtraEnv []string
	// Platform specifies the target GOOS/GOARCH.
	Platform string
	// BuildFlags provides extra flags for `go build` or `go test -c`.
	BuildFlags []string
	// GoProxy sets the GOPROXY environment variable for the build.
	GoProxy string
	// Logger optionally carries a *zap.Logger for the bundler.
	Logger interface{}
}

// Build constructs the *exec.Cmd that produces the Go asset binary.
func Build(opt Options, outputPath string, srcInfo os.FileInfo) (*exec.Cmd, error) {
	goos := runtime.GOOS
	goarch := runtime.GOARCH
	if opt.Platform != "" {
		parts := strings.SplitN(opt.Platform, "/", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid target platform format '%s', expected 'GOOS/GOARCH'", opt.Platform)
		}
		goos = parts[0]
		goarch = parts[1]
	}

	// -trimpath keeps the output reproducible across checkouts
	defaultBuildFlags := []string{"-trimpath"}
	if !opt.IsTest && !sliceContainsPrefix(opt.BuildFlags, "-buildvcs=") {
		defaultBuildFlags = append(defaultBuildFlags, "-buildvcs=false")
	}

	var args []string
	var target string
	if opt.IsTest {
		args = []string{"test", "-c"}
		target = "."
	} else {
		args = []string{"build"}
		if srcInfo.IsDir() {
			target = "."
		} else {
			target = filepath.Base(opt.SrcPath)
		}
	}
	args = append(args, defaultBuildFlags...)
	args = append(args, opt.BuildFlags...)
	args = append(args, "-o", outputPath, target)

	env := os.Environ()
	env = append(env, fmt.Sprintf("GOOS=%s", goos), fmt.Sprintf("GOARCH=%s", goarch))
	if !sliceContains(opt.ExtraEnv, "CGO_ENABLED=1") {
		env = append(env, "CGO_ENABLED=0")
	}
	if opt.GoProxy != "" {
		env = append(env, fmt.Sprintf("GOPROXY=%s", opt.GoProxy))
	}
	if modCache := os.Getenv("GOMODCACHE"); modCache != "" && !sliceContainsPrefix(opt.ExtraEnv, "GOMODCACHE=") {
		env = append(env, fmt.Sprintf("GOMODCACHE=%s", modCache))
	}
	env = append(env, opt.ExtraEnv...)

	cmd := exec.Command("go", args...)
	cmd.Env = dedupeEnv(env)
	if srcInfo.IsDir() {
		cmd.Dir = opt.SrcPath
	} else {
		cmd.Dir = filepath.Dir(opt.SrcPath)
	}

	return cmd, nil
}

// dedupeEnv removes duplicate environment variables, keeping the last value.
func dedupeEnv(env []string) []string {
	envMap := make(map[string]string, len(env))
	keysInOrder := make([]string, 0, len(env))
	for _, pair := range env {
		parts := strings.SplitN(pair, "=", 2)
		key := parts[0]
		if key == "" {
			continue
		}
		var value string
		if len(parts) == 2 {
			value = parts[1]
		}
		if _, exists := envMap[key]; !exists {
			keysInOrder = append(keysInOrder, key)
		}
		envMap[key] = value
	}
	out := make([]string, 0, len(keysInOrder))
	for _, key := range keysInOrder {
		out = append(out, fmt.Sprintf("%s=%s", key, envMap[key]))
	}
	return out
}

func sliceContains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func sliceContainsPrefix(slice []string, prefix string) bool {
	for _, s := range slice {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
