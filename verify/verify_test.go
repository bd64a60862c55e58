package verify

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-sev-guest/abi"
	"github.com/google/go-snp-tools/internal/test"
	"github.com/google/go-snp-tools/report"
)

// countingCrypto wraps DefaultCrypto and records how often it is used.
type countingCrypto struct {
	hashes   int
	verifies int
}

func (c *countingCrypto) SHA384(message []byte) ([]byte, error) {
	c.hashes++
	return DefaultCrypto.SHA384(message)
}

func (c *countingCrypto) VerifyECDSA(pub *ecdsa.PublicKey, digest, der []byte) (bool, error) {
	c.verifies++
	return DefaultCrypto.VerifyECDSA(pub, digest, der)
}

type failingCrypto struct {
	hashErr   error
	verifyErr error
}

func (f failingCrypto) SHA384(message []byte) ([]byte, error) {
	if f.hashErr != nil {
		return nil, f.hashErr
	}
	return DefaultCrypto.SHA384(message)
}

func (f failingCrypto) VerifyECDSA(pub *ecdsa.PublicKey, digest, der []byte) (bool, error) {
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return DefaultCrypto.VerifyECDSA(pub, digest, der)
}

func TestValidateAcceptsSignedReport(t *testing.T) {
	priv := test.GetTestKey(t)
	r := test.GetSignedTestReport(t, priv)
	provider := &countingCrypto{}
	if err := Validate(r, PublicKey(&priv.PublicKey), &Options{Crypto: provider}); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if provider.hashes != 1 || provider.verifies != 1 {
		t.Errorf("crypto provider called %d/%d times, want 1/1", provider.hashes, provider.verifies)
	}
	if err := Validate(r, PublicKey(&priv.PublicKey), nil); err != nil {
		t.Errorf("Validate() with default options = %v, want nil", err)
	}
}

func TestValidateTCBInconsistentSkipsCrypto(t *testing.T) {
	priv := test.GetTestKey(t)
	r := test.GetTestReport(t)
	r.CommittedTCB.SNP++
	test.SignReport(t, r, priv)

	provider := &countingCrypto{}
	keyCalls := 0
	key := KeyFunc(func() (*ecdsa.PublicKey, error) {
		keyCalls++
		return &priv.PublicKey, nil
	})
	err := Validate(r, key, &Options{Crypto: provider})
	if !errors.Is(err, ErrTCBInconsistent) {
		t.Fatalf("Validate() = %v, want ErrTCBInconsistent", err)
	}
	if provider.hashes != 0 || provider.verifies != 0 || keyCalls != 0 {
		t.Errorf("crypto work done for an inconsistent report: %d hashes, %d verifies, %d key extractions",
			provider.hashes, provider.verifies, keyCalls)
	}
}

func TestValidateDetectsTampering(t *testing.T) {
	priv := test.GetTestKey(t)
	key := PublicKey(&priv.PublicKey)
	signed := test.GetSignedTestReport(t, priv).Encode()

	reportedTCB := map[int]bool{}
	committedTCB := map[int]bool{}
	for i := 0; i < 8; i++ {
		reportedTCB[0x180+i] = true
		committedTCB[0x1E0+i] = true
	}

	for offset := 0; offset < report.SignatureOffset; offset++ {
		bit := byte(1) << (offset % 8)
		tampered := make([]byte, len(signed))
		copy(tampered, signed)
		tampered[offset] ^= bit
		if reportedTCB[offset] {
			// Keep the TCB gate satisfied so the signature gate is reached.
			tampered[offset-0x180+0x1E0] ^= bit
		}
		if committedTCB[offset] {
			continue
		}
		err := RawReport(tampered, key, nil)
		if !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("bit flip at offset 0x%x: RawReport() = %v, want ErrSignatureInvalid", offset, err)
		}
	}
}

func TestValidateCorruptedMeasurement(t *testing.T) {
	priv := test.GetTestKey(t)
	r := test.GetSignedTestReport(t, priv)
	key := PublicKey(&priv.PublicKey)
	if err := Validate(r, key, nil); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	r.Measurement[0] ^= 0xFF
	if err := Validate(r, key, nil); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Validate() = %v, want ErrSignatureInvalid", err)
	}
}

func TestValidateWrongKey(t *testing.T) {
	priv := test.GetTestKey(t)
	other := test.GetTestKey(t)
	r := test.GetSignedTestReport(t, priv)
	err := Validate(r, PublicKey(&other.PublicKey), nil)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Validate() = %v, want ErrSignatureInvalid", err)
	}
	if errors.Is(err, ErrCryptoBackend) {
		t.Error("wrong key reported as a crypto backend error")
	}
}

func TestRawReportWrongSize(t *testing.T) {
	priv := test.GetTestKey(t)
	raw := test.GetSignedTestReport(t, priv).Encode()
	key := PublicKey(&priv.PublicKey)

	if err := RawReport(raw, key, nil); err != nil {
		t.Fatalf("RawReport() = %v, want nil", err)
	}
	for _, b := range [][]byte{nil, raw[:len(raw)-1], append(raw, 0)} {
		err := RawReport(b, key, nil)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("RawReport(%d bytes) = %v, want ErrDecode", len(b), err)
		}
		if !errors.Is(err, report.ErrDecode) {
			t.Errorf("RawReport(%d bytes) = %v, want wrapped report.ErrDecode", len(b), err)
		}
	}
}

func TestCryptoBackendErrors(t *testing.T) {
	priv := test.GetTestKey(t)
	good := test.GetSignedTestReport(t, priv)
	goodKey := PublicKey(&priv.PublicKey)
	p256, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(r *report.Report)
		key    SigningKey
		opts   *Options
	}{
		{
			name:   "zero R",
			mutate: func(r *report.Report) { r.Signature.R = [report.SignatureComponentSize]byte{} },
			key:    goodKey,
		},
		{
			name:   "non-zero S padding",
			mutate: func(r *report.Report) { r.Signature.S[60] = 1 },
			key:    goodKey,
		},
		{
			name: "R above group order",
			mutate: func(r *report.Report) {
				for i := 0; i < 48; i++ {
					r.Signature.R[i] = 0xFF
				}
			},
			key: goodKey,
		},
		{
			name: "key extraction failure",
			key:  KeyFunc(func() (*ecdsa.PublicKey, error) { return nil, errors.New("no key") }),
		},
		{
			name: "nil key",
			key:  PublicKey(nil),
		},
		{
			name: "P-256 key",
			key:  PublicKey(&p256.PublicKey),
		},
		{
			name: "point not on P-384",
			key:  PublicKey(&ecdsa.PublicKey{Curve: elliptic.P384(), X: big.NewInt(1), Y: big.NewInt(1)}),
		},
		{
			name: "missing coordinates",
			key:  PublicKey(&ecdsa.PublicKey{Curve: elliptic.P384()}),
		},
		{
			name: "hash failure",
			key:  goodKey,
			opts: &Options{Crypto: failingCrypto{hashErr: errors.New("hash unavailable")}},
		},
		{
			name: "verify failure",
			key:  goodKey,
			opts: &Options{Crypto: failingCrypto{verifyErr: errors.New("backend fault")}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := *good
			if tc.mutate != nil {
				tc.mutate(&r)
			}
			err := Validate(&r, tc.key, tc.opts)
			if !errors.Is(err, ErrCryptoBackend) {
				t.Errorf("Validate() = %v, want ErrCryptoBackend", err)
			}
			if errors.Is(err, ErrSignatureInvalid) {
				t.Error("backend failure reported as an invalid signature")
			}
		})
	}
}

func TestInvalidKeyNotPassedToProvider(t *testing.T) {
	priv := test.GetTestKey(t)
	r := test.GetSignedTestReport(t, priv)
	p256, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	keys := map[string]*ecdsa.PublicKey{
		"P-256":     &p256.PublicKey,
		"off curve": {Curve: elliptic.P384(), X: big.NewInt(1), Y: big.NewInt(1)},
	}
	for name, pub := range keys {
		t.Run(name, func(t *testing.T) {
			provider := &countingCrypto{}
			err := Validate(r, PublicKey(pub), &Options{Crypto: provider})
			if !errors.Is(err, ErrCryptoBackend) {
				t.Errorf("Validate() = %v, want ErrCryptoBackend", err)
			}
			if provider.verifies != 0 {
				t.Errorf("provider asked to verify with an invalid key %d times", provider.verifies)
			}
		})
	}
}

func TestSignatureDERMatchesGoSevGuest(t *testing.T) {
	priv := test.GetTestKey(t)
	r := test.GetSignedTestReport(t, priv)
	der, err := SignatureDER(&r.Signature)
	if err != nil {
		t.Fatalf("SignatureDER() failed: %v", err)
	}
	want, err := abi.ReportToSignatureDER(r.Encode())
	if err != nil {
		t.Fatalf("abi.ReportToSignatureDER() failed: %v", err)
	}
	if string(der) != string(want) {
		t.Errorf("SignatureDER() = %x, want %x", der, want)
	}
}

func TestValidationErrorKinds(t *testing.T) {
	kinds := []error{ErrDecode, ErrTCBInconsistent, ErrSignatureInvalid, ErrCryptoBackend}
	cause := errors.New("cause")
	for _, kind := range kinds {
		err := error(&ValidationError{Kind: kind, Err: cause})
		for _, other := range kinds {
			if got, want := errors.Is(err, other), other == kind; got != want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", err, other, got, want)
			}
		}
		if !errors.Is(err, cause) {
			t.Errorf("errors.Is(%v, cause) = false, want true", err)
		}
	}
}
