// Package goasset builds Go binaries at synth time and ships them as S3
// assets. Building happens locally when the host matches the target
// platform; otherwise bundling falls back to the Docker image.
package goasset

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"go.uber.org/zap"

	"github.com/netforge/infra/lib/cdklogger"
	"github.com/netforge/infra/lib/goasset/internal/buildcmd"
)

// Options re-exports the bundling options.
type Options = buildcmd.Options

var (
	ErrSrcMissing   = errors.New("SrcPath is required")
	ErrSrcNotExist  = errors.New("SrcPath does not exist")
	ErrIsTestNotDir = errors.New("IsTest SrcPath must be a directory")
)

func validate(o buildcmd.Options) error {
	if o.SrcPath == "" {
		return ErrSrcMissing
	}
	srcInfo, err := os.Stat(o.SrcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: '%s'", ErrSrcNotExist, o.SrcPath)
		}
		return fmt.Errorf("failed to stat SrcPath '%s': %w", o.SrcPath, err)
	}
	if o.IsTest && !srcInfo.IsDir() {
		return fmt.Errorf("%w: SrcPath must be directory ('%s')", ErrIsTestNotDir, o.SrcPath)
	}
	return nil
}

func loggerFrom(opt buildcmd.Options) *zap.Logger {
	if l, ok := opt.Logger.(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// Bundle builds a Go application or test binary from the given source path
// and returns it as an S3 asset.
func Bundle(scope constructs.Construct, id string, opt buildcmd.Options) awss3assets.Asset {
	logger := loggerFrom(opt).Named("goasset").With(zap.String("assetID", id))

	if err := validate(opt); err != nil {
		logger.Error("invalid bundle options", zap.Error(err))
		panic(err)
	}
	srcInfo, err := os.Stat(opt.SrcPath)
	if err != nil {
		panic(fmt.Errorf("unexpected error stating SrcPath '%s' after validation: %w", opt.SrcPath, err))
	}

	if opt.OutName == "" {
		opt.OutName = filepath.Base(opt.SrcPath)
	}
	if opt.Platform == "" {
		opt.Platform = "linux/amd64"
	}
	if opt.GoProxy == "" {
		opt.GoProxy = os.Getenv("GOPROXY")
	}

	sourceDir := opt.SrcPath
	if !srcInfo.IsDir() {
		sourceDir = filepath.Dir(opt.SrcPath)
	}

	// The asset hash covers everything that changes the build output, not
	// just the sources: toolchain version, platform, flags and env.
	hashInput := bytes.NewBufferString(goVersion())
	hashInput.WriteString("|")
	hashInput.WriteString(opt.Platform)
	hashInput.WriteString("|")
	hashInput.WriteString(fmt.Sprintf("IsTest=%t", opt.IsTest))
	hashInput.WriteString("|")
	sortedBuildFlags := append([]string{}, opt.BuildFlags...)
	sort.Strings(sortedBuildFlags)
	hashInput.WriteString(strings.Join(sortedBuildFlags, ","))
	hashInput.WriteString("|")
	sortedExtraEnv := append([]string{}, opt.ExtraEnv...)
	sort.Strings(sortedExtraEnv)
	hashInput.WriteString(strings.Join(sortedExtraEnv, ","))

	hasher := sha256.New()
	hasher.Write(hashInput.Bytes())
	customHash := hex.EncodeToString(hasher.Sum(nil))

	bundler := &goBundler{
		opt:     opt,
		l:       logger,
		srcInfo: srcInfo,
		scope:   scope,
		assetID: id,
	}

	asset := awss3assets.NewAsset(scope, jsii.String(id), &awss3assets.AssetProps{
		Path: jsii.String(sourceDir),
		Bundling: &awscdk.BundlingOptions{
			Image:   awscdk.DockerImage_FromRegistry(jsii.String("golang:1.24")),
			Local:   bundler,
			Command: jsii.Strings("/bin/sh", "-c", "go build -trimpath -o /asset-output/"+opt.OutName+" ."),
		},
		AssetHashType: awscdk.AssetHashType_CUSTOM,
		AssetHash:     jsii.String(customHash),
	})

	cdklogger.LogInfo(scope, id, "Go S3 asset created. AssetPath (token): %s", *asset.S3ObjectUrl())

	return asset
}

// BundleDir is a convenience wrapper around Bundle for source directories.
func BundleDir(scope constructs.Construct, id string, srcDir string, mods ...func(*buildcmd.Options)) awss3assets.Asset {
	opt := buildcmd.Options{SrcPath: srcDir}
	for _, mod := range mods {
		mod(&opt)
	}
	if opt.SrcPath != srcDir {
		loggerFrom(opt).Warn("BundleDir option modified SrcPath, using original directory",
			zap.String("originalSrcDir", srcDir),
			zap.String("modifiedSrcPath", opt.SrcPath),
		)
		opt.SrcPath = srcDir
	}
	return Bundle(scope, id, opt)
}

// goBundler implements awscdk.ILocalBundling.
type goBundler struct {
	opt     buildcmd.Options
	l       *zap.Logger
	srcInfo os.FileInfo
	scope   constructs.Construct
	assetID string
}

var _ awscdk.ILocalBundling = &goBundler{}

// TryBundle executes the Go build locally, or reports false to delegate to
// Docker bundling when the host cannot produce the target platform.
func (b *goBundler) TryBundle(outputDir *string, _ *awscdk.BundlingOptions) *bool {
	goos, goarch := runtime.GOOS, runtime.GOARCH
	if parts := strings.SplitN(b.opt.Platform, "/", 2); len(parts) == 2 {
		goos, goarch = parts[0], parts[1]
	}
	if runtime.GOOS != goos || runtime.GOARCH != goarch {
		b.l.Info("cross-compilation required, delegating to Docker bundling",
			zap.String("hostPlatform", runtime.GOOS+"/"+runtime.GOARCH),
			zap.String("targetPlatform", goos+"/"+goarch),
		)
		return jsii.Bool(false)
	}

	outputPath := filepath.Join(*outputDir, b.opt.OutName)
	cmd, err := buildcmd.Build(b.opt, outputPath, b.srcInfo)
	if err != nil {
		b.l.Error("failed to construct go build command", zap.Error(err))
		cdklogger.LogError(b.scope, b.assetID, "Failed to construct Go build command: %s", err.Error())
		return jsii.Bool(false)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	if err != nil || cmd.ProcessState == nil || !cmd.ProcessState.Success() {
		b.l.Error("go build failed",
			zap.Error(err),
			zap.String("stdout", stdout.String()),
			zap.String("stderr", stderr.String()),
			zap.String("command", cmd.String()),
			zap.String("cwd", cmd.Dir),
		)
		cdklogger.LogError(b.scope, b.assetID, "Go build failed. Stderr: %s. Command: %s", stderr.String(), cmd.String())
		return jsii.Bool(false)
	}

	if _, statErr := os.Stat(outputPath); os.IsNotExist(statErr) {
		b.l.Error("go build succeeded but output file is missing", zap.String("expectedPath", outputPath))
		cdklogger.LogError(b.scope, b.assetID, "Go build succeeded but output file missing: %s", outputPath)
		return jsii.Bool(false)
	}

	b.l.Info("go binary built locally", zap.String("outputPath", outputPath), zap.Duration("duration", duration))
	return jsii.Bool(true)
}

func goVersion() string {
	out, err := exec.Command("go", "version").Output()
	if err != nil {
		return runtime.Version()
	}
	return strings.TrimSpace(string(out))
}
