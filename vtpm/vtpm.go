// Package vtpm reads SEV-SNP attestation reports from a paravisor-backed vTPM.
//
// On such VMs the paravisor stores an HCL report in a TPM NV index. The HCL report starts
// with a fixed header followed by the hardware attestation report.
package vtpm

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/go-snp-tools/report"
	"github.com/google/go-tpm/legacy/tpm2"
	"github.com/google/go-tpm/tpmutil"
)

const (
	// ReportIndex is the NV index holding the HCL report.
	ReportIndex = tpmutil.Handle(0x01400001)
	// HeaderSize is the size of the HCL report header preceding the SNP report.
	HeaderSize = 32
)

// hclSignature is the magic at the start of the HCL report header.
var hclSignature = []byte("HCLA")

// ReadHCLReport reads the full HCL report from the TPM. The read is authenticated with the
// owner hierarchy and an empty password.
func ReadHCLReport(rw io.ReadWriter) ([]byte, error) {
	data, err := tpm2.NVReadEx(rw, ReportIndex, tpm2.HandleOwner, "", 0)
	if err != nil {
		return nil, fmt.Errorf("reading NV index 0x%x: %w", uint32(ReportIndex), err)
	}
	return data, nil
}

// ExtractReport returns the raw SNP attestation report embedded in an HCL report.
func ExtractReport(hcl []byte) ([]byte, error) {
	if len(hcl) < HeaderSize+report.Size {
		return nil, fmt.Errorf("HCL report is %d bytes, want at least %d", len(hcl), HeaderSize+report.Size)
	}
	if !bytes.Equal(hcl[:len(hclSignature)], hclSignature) {
		return nil, fmt.Errorf("HCL report signature is %q, want %q", hcl[:len(hclSignature)], hclSignature)
	}
	raw := make([]byte, report.Size)
	copy(raw, hcl[HeaderSize:HeaderSize+report.Size])
	return raw, nil
}

// ReadReport reads the HCL report from the TPM and returns the SNP report inside it.
func ReadReport(rw io.ReadWriter) ([]byte, error) {
	hcl, err := ReadHCLReport(rw)
	if err != nil {
		return nil, err
	}
	return ExtractReport(hcl)
}
