package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func makeTempFile(tb testing.TB, content []byte) string {
	tb.Helper()
	file, err := os.CreateTemp(tb.TempDir(), "snpreport_test_*.bin")
	if err != nil {
		tb.Fatal(err)
	}
	defer file.Close()
	if content != nil {
		if _, err := file.Write(content); err != nil {
			tb.Fatal(err)
		}
	}
	return file.Name()
}

func makeOutputFile(tb testing.TB, name string) string {
	tb.Helper()
	return filepath.Join(tb.TempDir(), name)
}

// resetFlags restores the package-level flag values between RootCmd executions.
func resetFlags() {
	output = ""
	input = ""
	vcekPath = ""
	format = formatTextproto
	hcl = false
	quiet = false
	verbose = false
}
