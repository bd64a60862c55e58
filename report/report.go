// Package report decodes and encodes AMD SEV-SNP attestation reports.
//
// The layout follows the ATTESTATION_REPORT structure of the SEV Secure Nested Paging
// Firmware ABI Specification (publication 56860). Every byte of the wire format, reserved
// regions included, is carried by a field of Report so that Encode reproduces the decoded
// bytes exactly.
package report

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/go-sev-guest/abi"
	spb "github.com/google/go-sev-guest/proto/sevsnp"
)

const (
	// Size is the length in bytes of an encoded attestation report.
	Size = 0x4A0
	// SignatureSize is the length in bytes of the trailing signature field.
	SignatureSize = 0x200
	// SignatureOffset is where the signature starts. The signed message is everything before it.
	SignatureOffset = Size - SignatureSize

	// SignatureComponentSize is the width of each of the R and S fields.
	SignatureComponentSize = 72

	// SignEcdsaP384Sha384 is the SIGNATURE_ALGO value for ECDSA P-384 with SHA-384.
	SignEcdsaP384Sha384 = 1
)

// ErrDecode is wrapped by every error returned from Decode.
var ErrDecode = errors.New("malformed attestation report")

// TCBVersion is the 8-byte TCB_VERSION structure.
type TCBVersion struct {
	Bootloader uint8
	TEE        uint8
	Reserved   [4]byte
	SNP        uint8
	Microcode  uint8
}

// Uint64 returns the packed little-endian form of the TCB version, as used by the AMD
// Key Distribution Service and go-sev-guest.
func (t TCBVersion) Uint64() uint64 {
	var b [8]byte
	b[0] = t.Bootloader
	b[1] = t.TEE
	copy(b[2:6], t.Reserved[:])
	b[6] = t.SNP
	b[7] = t.Microcode
	return binary.LittleEndian.Uint64(b[:])
}

// TCBFromUint64 unpacks a TCB version from its packed form.
func TCBFromUint64(v uint64) TCBVersion {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	t := TCBVersion{
		Bootloader: b[0],
		TEE:        b[1],
		SNP:        b[6],
		Microcode:  b[7],
	}
	copy(t.Reserved[:], b[2:6])
	return t
}

func (t TCBVersion) String() string {
	return fmt.Sprintf("bl=%d tee=%d snp=%d ucode=%d", t.Bootloader, t.TEE, t.SNP, t.Microcode)
}

// Signature is the signature field of the report. R and S are little-endian integers
// zero-padded to SignatureComponentSize bytes.
type Signature struct {
	R        [SignatureComponentSize]byte
	S        [SignatureComponentSize]byte
	Reserved [368]byte
}

// Report is a decoded SEV-SNP attestation report. Field order matches the wire layout.
type Report struct {
	Version         uint32   // 0x000
	GuestSVN        uint32   // 0x004
	Policy          uint64   // 0x008
	FamilyID        [16]byte // 0x010
	ImageID         [16]byte // 0x020
	VMPL            uint32   // 0x030
	SignatureAlgo   uint32   // 0x034
	CurrentTCB      TCBVersion
	PlatformInfo    uint64 // 0x040
	Flags           uint32 // 0x048, AUTHOR_KEY_EN, MASK_CHIP_KEY and SIGNING_KEY
	Reserved0       uint32
	ReportData      [64]byte // 0x050
	Measurement     [48]byte // 0x090
	HostData        [32]byte // 0x0C0
	IDKeyDigest     [48]byte // 0x0E0
	AuthorKeyDigest [48]byte // 0x110
	ReportID        [32]byte // 0x140
	ReportIDMA      [32]byte // 0x160
	ReportedTCB     TCBVersion
	Reserved1       [24]byte // 0x188, CPUID fields from report version 3 on
	ChipID          [64]byte // 0x1A0
	CommittedTCB    TCBVersion
	CurrentBuild    uint8 // 0x1E8
	CurrentMinor    uint8
	CurrentMajor    uint8
	Reserved2       uint8
	CommittedBuild  uint8 // 0x1EC
	CommittedMinor  uint8
	CommittedMajor  uint8
	Reserved3       uint8
	LaunchTCB       TCBVersion
	Reserved4       [168]byte // 0x1F8
	Signature       Signature // 0x2A0
}

// Decode parses an attestation report. The buffer must be exactly Size bytes long.
func Decode(b []byte) (*Report, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDecode, len(b), Size)
	}
	r := &Report{}
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return r, nil
}

// Parse is an alias of Decode.
func Parse(b []byte) (*Report, error) {
	return Decode(b)
}

// Encode returns the wire representation of r.
func (r *Report) Encode() []byte {
	var buf bytes.Buffer
	buf.Grow(Size)
	// Writes into a bytes.Buffer of a fixed-size struct cannot fail.
	if err := binary.Write(&buf, binary.LittleEndian, r); err != nil {
		panic(fmt.Sprintf("encoding attestation report: %v", err))
	}
	return buf.Bytes()
}

// SignedPrefix returns the bytes covered by the report signature: the encoded report up
// to, and not including, the signature field.
func (r *Report) SignedPrefix() []byte {
	return r.Encode()[:SignatureOffset]
}

// Proto converts r into go-sev-guest's protobuf representation.
func (r *Report) Proto() (*spb.Report, error) {
	return abi.ReportToProto(r.Encode())
}

// FromProto builds a Report from go-sev-guest's protobuf representation.
func FromProto(p *spb.Report) (*Report, error) {
	raw, err := abi.ReportToAbiBytes(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Decode(raw)
}
