// Package vcek loads Versioned Chip Endorsement Key certificates, the certificates whose
// key signs SEV-SNP attestation reports.
//
// The certificate's own chain of trust is not checked here.
package vcek

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/google/go-sev-guest/kds"
	"github.com/google/go-snp-tools/report"
)

// Certificate is a parsed VCEK certificate. It satisfies verify.SigningKey.
type Certificate struct {
	X509 *x509.Certificate
}

// Extensions holds the AMD-specific X.509 extensions of a VCEK certificate.
type Extensions struct {
	ProductName string
	HWID        []byte
	TCB         report.TCBVersion
}

// ParseDER parses a DER-encoded certificate.
func ParseDER(der []byte) (*Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parsing VCEK certificate: %w", err)
	}
	return &Certificate{X509: cert}, nil
}

// ParsePEM parses the first CERTIFICATE block of a PEM file.
func ParsePEM(data []byte) (*Certificate, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errors.New("no CERTIFICATE PEM block found")
		}
		if block.Type == "CERTIFICATE" {
			return ParseDER(block.Bytes)
		}
	}
}

// Parse accepts either PEM or DER encoding.
func Parse(data []byte) (*Certificate, error) {
	if block, _ := pem.Decode(data); block != nil {
		return ParsePEM(data)
	}
	return ParseDER(data)
}

// ParseFile reads and parses a PEM or DER certificate from path.
func ParseFile(path string) (*Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ECDSAPublicKey returns the certificate's P-384 public key.
func (c *Certificate) ECDSAPublicKey() (*ecdsa.PublicKey, error) {
	if c == nil || c.X509 == nil {
		return nil, errors.New("no VCEK certificate")
	}
	pub, ok := c.X509.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("VCEK public key is %T, want *ecdsa.PublicKey", c.X509.PublicKey)
	}
	if pub.Curve != elliptic.P384() {
		return nil, fmt.Errorf("VCEK public key curve is %s, want P-384", pub.Curve.Params().Name)
	}
	return pub, nil
}

// Extensions decodes the AMD Key Distribution Service extensions of the certificate.
func (c *Certificate) Extensions() (*Extensions, error) {
	if c == nil || c.X509 == nil {
		return nil, errors.New("no VCEK certificate")
	}
	exts, err := kds.VcekCertificateExtensions(c.X509)
	if err != nil {
		return nil, fmt.Errorf("reading VCEK extensions: %w", err)
	}
	return &Extensions{
		ProductName: exts.ProductName,
		HWID:        exts.HWID[:],
		TCB:         report.TCBFromUint64(uint64(exts.TCBVersion)),
	}, nil
}
