// Package verify checks that an SEV-SNP attestation report is internally consistent and
// signed by a given VCEK.
//
// Root-of-trust validation of the VCEK, freshness of REPORT_DATA and measurement policy
// are left to the caller.
package verify

import (
	"github.com/google/go-snp-tools/report"
)

// Options customizes Validate, ReportSignature and RawReport. A nil *Options uses defaults.
type Options struct {
	// Crypto supplies SHA-384 and ECDSA P-384. Defaults to DefaultCrypto.
	Crypto CryptoProvider
}

func (o *Options) crypto() CryptoProvider {
	if o == nil || o.Crypto == nil {
		return DefaultCrypto
	}
	return o.Crypto
}

// ReportSignature checks that the report's signature is an ECDSA P-384 signature over the
// SHA-384 digest of the report's signed prefix, made by the owner of key.
func ReportSignature(r *report.Report, key SigningKey, opts *Options) error {
	if r == nil {
		return newError(ErrDecode, "nil report")
	}
	if key == nil {
		return newError(ErrCryptoBackend, "nil signing key")
	}
	provider := opts.crypto()

	digest, err := provider.SHA384(r.SignedPrefix())
	if err != nil {
		return newError(ErrCryptoBackend, "hashing report: %v", err)
	}
	der, err := SignatureDER(&r.Signature)
	if err != nil {
		return newError(ErrCryptoBackend, "decoding report signature: %v", err)
	}
	pub, err := key.ECDSAPublicKey()
	if err != nil {
		return newError(ErrCryptoBackend, "extracting signing key: %v", err)
	}
	if err := checkPublicKey(pub); err != nil {
		return newError(ErrCryptoBackend, "signing key: %v", err)
	}
	ok, err := provider.VerifyECDSA(pub, digest, der)
	if err != nil {
		return newError(ErrCryptoBackend, "verifying report signature: %v", err)
	}
	if !ok {
		return &ValidationError{Kind: ErrSignatureInvalid}
	}
	return nil
}

// Validate rejects the report unless its reported and committed TCB agree and its
// signature verifies against key. The TCB check runs first; no cryptographic work is
// done for an inconsistent report.
func Validate(r *report.Report, key SigningKey, opts *Options) error {
	if r == nil {
		return newError(ErrDecode, "nil report")
	}
	if !report.IsTCBConsistent(r) {
		return newError(ErrTCBInconsistent, "reported %v, committed %v", r.ReportedTCB, r.CommittedTCB)
	}
	return ReportSignature(r, key, opts)
}

// RawReport decodes raw and validates the result.
func RawReport(raw []byte, key SigningKey, opts *Options) error {
	r, err := report.Decode(raw)
	if err != nil {
		return &ValidationError{Kind: ErrDecode, Err: err}
	}
	return Validate(r, key, opts)
}
