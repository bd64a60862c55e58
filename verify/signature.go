package verify

import (
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/google/go-snp-tools/report"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// p384Size is the byte width of a P-384 scalar. The report pads each component to
// report.SignatureComponentSize bytes.
const p384Size = 48

// component decodes one little-endian, zero-padded signature component.
func component(name string, le []byte) (*big.Int, error) {
	for i, b := range le[p384Size:] {
		if b != 0 {
			return nil, fmt.Errorf("signature %s has non-zero padding byte at offset %d", name, p384Size+i)
		}
	}
	be := make([]byte, p384Size)
	for i := 0; i < p384Size; i++ {
		be[i] = le[p384Size-1-i]
	}
	v := new(big.Int).SetBytes(be)
	if v.Sign() == 0 {
		return nil, fmt.Errorf("signature %s is zero", name)
	}
	if v.Cmp(elliptic.P384().Params().N) >= 0 {
		return nil, fmt.Errorf("signature %s is not less than the P-384 group order", name)
	}
	return v, nil
}

// SignatureDER converts the report's raw R and S into an ASN.1 DER ECDSA-Sig-Value.
func SignatureDER(sig *report.Signature) ([]byte, error) {
	r, err := component("R", sig.R[:])
	if err != nil {
		return nil, err
	}
	s, err := component("S", sig.S[:])
	if err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.Bytes()
}
