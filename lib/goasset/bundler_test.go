package goasset_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/netforge/infra/lib/goasset"
	"github.com/netforge/infra/lib/goasset/internal/buildcmd"
)

type GoAssetSuite struct {
	suite.Suite
	tmpDir string
	logger *zap.Logger
	app    awscdk.App
	stack  awscdk.Stack
}

func (s *GoAssetSuite) SetupSuite() {
	var err error
	s.logger, err = zap.NewDevelopment()
	s.Require().NoError(err)
}

func (s *GoAssetSuite) SetupTest() {
	var err error
	s.tmpDir, err = os.MkdirTemp("", "goasset-test-*")
	s.Require().NoError(err, "Failed to create temp dir")

	srcDir := filepath.Join(s.tmpDir, "mysrc")
	err = os.MkdirAll(srcDir, 0755)
	s.Require().NoError(err)

	mainGo := filepath.Join(srcDir, "main.go")
	mainContent := `
package main
import "fmt"
func main() {
	fmt.Println("relaycheck stand-in")
}
`
	err = os.WriteFile(mainGo, []byte(mainContent), 0644)
	s.Require().NoError(err)

	goMod := filepath.Join(srcDir, "go.mod")
	goModContent := `
module testmodule
go 1.23
`
	err = os.WriteFile(goMod, []byte(goModContent), 0644)
	s.Require().NoError(err)

	s.app = awscdk.NewApp(nil)
	s.stack = awscdk.NewStack(s.app, jsii.String("TestStack"), nil)
}

func (s *GoAssetSuite) TearDownTest() {
	err := os.RemoveAll(s.tmpDir)
	s.Require().NoError(err, "Failed to remove temp dir")
}

func TestGoAssetSuite(t *testing.T) {
	suite.Run(t, new(GoAssetSuite))
}

// --- Validation Tests ---

func (s *GoAssetSuite) TestValidation_SrcPathMissing() {
	options := buildcmd.Options{OutName: "test", Logger: s.logger}
	s.Require().PanicsWithError(goasset.ErrSrcMissing.Error(), func() {
		goasset.Bundle(s.stack, "TestValidationSrcMissing", options)
	}, "Expected panic due to missing SrcPath")
}

func (s *GoAssetSuite) TestValidation_SrcPathDoesNotExist() {
	nonExistentPath := filepath.Join(s.tmpDir, "does-not-exist")
	options := buildcmd.Options{
		SrcPath: nonExistentPath,
		OutName: "test",
		Logger:  s.logger,
	}
	s.Require().Panics(func() {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				s.Require().True(ok, "Panic value should be an error")
				s.Require().ErrorIs(err, goasset.ErrSrcNotExist, "Panic error should wrap ErrSrcNotExist")
				panic(r)
			} else {
				s.Fail("Expected a panic but did not get one")
			}
		}()
		goasset.Bundle(s.stack, "TestValidationSrcNotExist", options)
	}, "Expected panic due to non-existent SrcPath")
}

func (s *GoAssetSuite) TestValidation_IsTestWithFile() {
	mainGoFile := filepath.Join(s.tmpDir, "mysrc", "main.go")
	options := buildcmd.Options{
		SrcPath: mainGoFile,
		OutName: "test",
		IsTest:  true,
		Logger:  s.logger,
	}
	s.Require().Panics(func() {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				s.Require().True(ok, "Panic value should be an error")
				s.Require().ErrorIs(err, goasset.ErrIsTestNotDir, "Panic error should wrap ErrIsTestNotDir")
				panic(r)
			} else {
				s.Fail("Expected a panic but did not get one")
			}
		}()
		goasset.Bundle(s.stack, "TestValidationIsTestFile", options)
	}, "Expected panic due to IsTest=true with a file SrcPath")
}

// --- Command Construction Tests ---

func (s *GoAssetSuite) TestBuildCommand_Defaults() {
	srcDir := filepath.Join(s.tmpDir, "mysrc")
	srcInfo, err := os.Stat(srcDir)
	s.Require().NoError(err)

	options := buildcmd.Options{
		SrcPath:  srcDir,
		OutName:  "relaycheck",
		Platform: "linux/amd64",
		Logger:   s.logger,
	}
	outputPath := filepath.Join(s.tmpDir, "out", "relaycheck")

	cmd, err := buildcmd.Build(options, outputPath, srcInfo)
	s.Require().NoError(err)

	s.Require().Equal(srcDir, cmd.Dir, "Build should run in the source directory")
	s.Require().Contains(cmd.Args, "build")
	s.Require().Contains(cmd.Args, "-trimpath")
	s.Require().Contains(cmd.Args, "-buildvcs=false")
	s.Require().Contains(cmd.Args, outputPath)
	s.Require().Equal(".", cmd.Args[len(cmd.Args)-1], "Directory builds target the whole package")

	s.Require().Contains(cmd.Env, "GOOS=linux")
	s.Require().Contains(cmd.Env, "GOARCH=amd64")
	s.Require().Contains(cmd.Env, "CGO_ENABLED=0")
}

func (s *GoAssetSuite) TestBuildCommand_TestBinary() {
	srcDir := filepath.Join(s.tmpDir, "mysrc")
	srcInfo, err := os.Stat(srcDir)
	s.Require().NoError(err)

	options := buildcmd.Options{
		SrcPath:  srcDir,
		OutName:  "pkg.test",
		IsTest:   true,
		Platform: "linux/arm64",
		Logger:   s.logger,
	}
	outputPath := filepath.Join(s.tmpDir, "out", "pkg.test")

	cmd, err := buildcmd.Build(options, outputPath, srcInfo)
	s.Require().NoError(err)

	s.Require().Contains(cmd.Args, "test")
	s.Require().Contains(cmd.Args, "-c")
	s.Require().NotContains(cmd.Args, "-buildvcs=false", "go test -c does not accept -buildvcs")
	s.Require().Contains(cmd.Env, "GOARCH=arm64")
}

func (s *GoAssetSuite) TestBuildCommand_ExtraEnvAndFlags() {
	srcDir := filepath.Join(s.tmpDir, "mysrc")
	srcInfo, err := os.Stat(srcDir)
	s.Require().NoError(err)

	options := buildcmd.Options{
		SrcPath:    srcDir,
		OutName:    "relaycheck",
		Platform:   "linux/amd64",
		BuildFlags: []string{"-tags", "netgo"},
		ExtraEnv:   []string{"CGO_ENABLED=1", "RELAY_BUILD=1"},
		GoProxy:    "https://proxy.golang.org,direct",
		Logger:     s.logger,
	}
	outputPath := filepath.Join(s.tmpDir, "out", "relaycheck")

	cmd, err := buildcmd.Build(options, outputPath, srcInfo)
	s.Require().NoError(err)

	s.Require().Contains(cmd.Args, "-tags")
	s.Require().Contains(cmd.Args, "netgo")
	s.Require().Contains(cmd.Env, "RELAY_BUILD=1")
	s.Require().Contains(cmd.Env, "GOPROXY=https://proxy.golang.org,direct")
	s.Require().Contains(cmd.Env, "CGO_ENABLED=1")
	s.Require().NotContains(cmd.Env, "CGO_ENABLED=0", "Explicit ExtraEnv wins over the default")
}

func (s *GoAssetSuite) TestBuildCommand_FileTarget() {
	mainGoFile := filepath.Join(s.tmpDir, "mysrc", "main.go")
	srcInfo, err := os.Stat(mainGoFile)
	s.Require().NoError(err)

	options := buildcmd.Options{
		SrcPath:  mainGoFile,
		OutName:  "relaycheck",
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Logger:   s.logger,
	}
	outputPath := filepath.Join(s.tmpDir, "out", "relaycheck")

	cmd, err := buildcmd.Build(options, outputPath, srcInfo)
	s.Require().NoError(err)

	s.Require().Equal(filepath.Dir(mainGoFile), cmd.Dir, "File builds run in the containing directory")
	s.Require().Equal("main.go", cmd.Args[len(cmd.Args)-1], "File builds target the single file")
}

func (s *GoAssetSuite) TestBuildCommand_BadPlatform() {
	srcDir := filepath.Join(s.tmpDir, "mysrc")
	srcInfo, err := os.Stat(srcDir)
	s.Require().NoError(err)

	options := buildcmd.Options{
		SrcPath:  srcDir,
		OutName:  "relaycheck",
		Platform: "linux-amd64",
		Logger:   s.logger,
	}

	_, err = buildcmd.Build(options, filepath.Join(s.tmpDir, "out", "relaycheck"), srcInfo)
	s.Require().Error(err)
	s.Require().True(strings.Contains(err.Error(), "invalid target platform"), "Error should name the bad platform format")
}
