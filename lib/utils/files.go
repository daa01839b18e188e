package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/jsii-runtime-go"
)

// WriteToTempFile writes content to a file in the OS temp directory and
// returns its path. Asset constructs want a file path, so configuration
// rendered in memory during synthesis goes through here; the asset copies
// the file into the CDK staging directory.
func WriteToTempFile(filename string, content []byte) *string {
	tempFilePath := filepath.Join(os.TempDir(), filename)
	if err := os.WriteFile(tempFilePath, content, 0644); err != nil {
		panic(fmt.Sprintf("failed to write temporary asset file %s: %v", tempFilePath, err))
	}
	return jsii.String(tempFilePath)
}
