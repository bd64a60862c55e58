//go:build windows
// +build windows

package cmd

import (
	"io"

	"github.com/google/go-tpm/legacy/tpm2"
)

// On Windows, the TPM is opened through TBS.
func openImpl() (io.ReadWriteCloser, error) {
	return tpm2.OpenTPM()
}
