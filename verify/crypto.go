package verify

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha512"
	"errors"
	"fmt"
)

// CryptoProvider supplies the primitives used to check a report signature.
type CryptoProvider interface {
	// SHA384 returns the SHA-384 digest of message.
	SHA384(message []byte) ([]byte, error)
	// VerifyECDSA reports whether der is a valid ASN.1 ECDSA signature of digest by pub.
	// An error means the check could not be carried out.
	VerifyECDSA(pub *ecdsa.PublicKey, digest, der []byte) (bool, error)
}

// SigningKey is key material able to produce the public half of the key that signed a
// report, typically a VCEK certificate.
type SigningKey interface {
	ECDSAPublicKey() (*ecdsa.PublicKey, error)
}

// KeyFunc adapts a function to the SigningKey interface.
type KeyFunc func() (*ecdsa.PublicKey, error)

// ECDSAPublicKey calls f.
func (f KeyFunc) ECDSAPublicKey() (*ecdsa.PublicKey, error) {
	return f()
}

// PublicKey returns a SigningKey for an already extracted public key.
func PublicKey(pub *ecdsa.PublicKey) SigningKey {
	return KeyFunc(func() (*ecdsa.PublicKey, error) {
		if pub == nil {
			return nil, errors.New("nil public key")
		}
		return pub, nil
	})
}

type stdCrypto struct{}

// DefaultCrypto implements CryptoProvider with the Go standard library.
var DefaultCrypto CryptoProvider = stdCrypto{}

func (stdCrypto) SHA384(message []byte) ([]byte, error) {
	digest := sha512.Sum384(message)
	return digest[:], nil
}

func (stdCrypto) VerifyECDSA(pub *ecdsa.PublicKey, digest, der []byte) (bool, error) {
	if err := checkPublicKey(pub); err != nil {
		return false, err
	}
	return ecdsa.VerifyASN1(pub, digest, der), nil
}

// checkPublicKey returns an error unless pub is a point on P-384.
func checkPublicKey(pub *ecdsa.PublicKey) error {
	if pub == nil || pub.Curve == nil || pub.X == nil || pub.Y == nil {
		return errors.New("missing public key")
	}
	if pub.Curve != elliptic.P384() {
		return fmt.Errorf("public key curve is %s, want P-384", pub.Curve.Params().Name)
	}
	if _, err := pub.ECDH(); err != nil {
		return fmt.Errorf("public key is not a valid P-384 point: %w", err)
	}
	return nil
}
