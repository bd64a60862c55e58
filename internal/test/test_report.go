package test

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha512"
	"math/big"
	"testing"

	"github.com/google/go-snp-tools/report"
)

// TestTCB is the TCB version used by synthetic reports.
var TestTCB = report.TCBVersion{Bootloader: 3, TEE: 0, SNP: 8, Microcode: 115}

// GetTestReport returns an unsigned report with consistent TCB fields. It is accepted by
// go-sev-guest's abi.ReportToProto.
func GetTestReport(t testing.TB) *report.Report {
	t.Helper()
	r := &report.Report{
		Version:        2,
		GuestSVN:       1,
		Policy:         0x30000, // SMT allowed, reserved bit 17 set
		SignatureAlgo:  report.SignEcdsaP384Sha384,
		CurrentTCB:     TestTCB,
		ReportedTCB:    TestTCB,
		CommittedTCB:   TestTCB,
		LaunchTCB:      TestTCB,
		CurrentMajor:   1,
		CurrentMinor:   55,
		CurrentBuild:   21,
		CommittedMajor: 1,
		CommittedMinor: 55,
		CommittedBuild: 21,
	}
	for i := range r.Measurement {
		r.Measurement[i] = byte(i)
	}
	copy(r.ReportData[:], "report data")
	if _, err := rand.Read(r.ChipID[:]); err != nil {
		t.Fatalf("failed to read random chip ID: %v", err)
	}
	return r
}

// SignReport signs the report's signed prefix with priv and stores the signature in r.
func SignReport(t testing.TB, r *report.Report, priv *ecdsa.PrivateKey) {
	t.Helper()
	digest := sha512.Sum384(r.SignedPrefix())
	sigR, sigS, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatalf("failed to sign report: %v", err)
	}
	r.Signature = report.Signature{}
	putLittleEndian(r.Signature.R[:], sigR)
	putLittleEndian(r.Signature.S[:], sigS)
}

// GetSignedTestReport returns a synthetic report signed by priv.
func GetSignedTestReport(t testing.TB, priv *ecdsa.PrivateKey) *report.Report {
	t.Helper()
	r := GetTestReport(t)
	SignReport(t, r, priv)
	return r
}

func putLittleEndian(dst []byte, v *big.Int) {
	be := v.Bytes()
	for i, b := range be {
		dst[len(be)-1-i] = b
	}
}
