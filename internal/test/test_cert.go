package test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// GetTestVCEK returns a freshly generated P-384 key and a self-signed certificate for it.
func GetTestVCEK(t testing.TB) (*ecdsa.PrivateKey, *x509.Certificate) {
	t.Helper()
	priv := GetTestKey(t)
	return priv, GetTestCertForKey(t, priv)
}

// GetTestKey returns a freshly generated P-384 key.
func GetTestKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate P-384 key: %v", err)
	}
	return priv
}

// GetTestCertForKey returns a certificate for the provided key, self-signed by it.
func GetTestCertForKey(t testing.TB, priv *ecdsa.PrivateKey) *x509.Certificate {
	t.Helper()
	return GetTestCertWithExtensions(t, priv, nil)
}

// GetTestCertWithExtensions is like GetTestCertForKey but adds the given X.509 extensions,
// such as the AMD KDS ones.
func GetTestCertWithExtensions(t testing.TB, priv *ecdsa.PrivateKey, exts []pkix.Extension) *x509.Certificate {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber:       big.NewInt(1),
		Subject:            pkix.Name{CommonName: "SEV-VCEK"},
		NotBefore:          time.Now(),
		NotAfter:           time.Now().Add(time.Hour),
		SignatureAlgorithm: x509.ECDSAWithSHA384,
		ExtraExtensions:    exts,
	}
	certBytes, err := x509.CreateCertificate(rand.Reader, template, template, priv.Public(), priv)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(certBytes)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert
}

// CertPEM PEM-encodes cert.
func CertPEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}
