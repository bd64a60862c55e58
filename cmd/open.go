package cmd

import (
	"fmt"
	"io"
)

// ExternalTPM can be set to run tests against a TPM initialized by an
// external package (like a simulator). Setting this value will make the
// read command run against it, and will prevent the cmd package from
// closing the TPM. Setting this value and closing the TPM must be managed
// by the external package.
var ExternalTPM io.ReadWriter

// extTPMWrapper wraps the ExternalTPM so that Close is a no-op.
type extTPMWrapper struct {
	io.ReadWriter
}

// Close is no-op for extTPMWrapper to prevent it closing the underlying TPM.
func (et extTPMWrapper) Close() error {
	return nil
}

func openTpm() (io.ReadWriteCloser, error) {
	if ExternalTPM != nil {
		return extTPMWrapper{ExternalTPM}, nil
	}
	rwc, err := openImpl()
	if err != nil {
		return nil, fmt.Errorf("connecting to TPM: %w", err)
	}
	return rwc, nil
}
