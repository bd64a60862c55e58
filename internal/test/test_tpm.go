package test

import (
	"io"
	"testing"

	"github.com/google/go-tpm-tools/simulator"
	"github.com/google/go-tpm/legacy/tpm2"
	"github.com/google/go-tpm/tpmutil"
)

// nvChunkSize stays below the simulator's MAX_NV_BUFFER_SIZE.
const nvChunkSize = 512

// GetSimulator returns a freshly manufactured simulated TPM. The caller must close it.
func GetSimulator(tb testing.TB) io.ReadWriteCloser {
	tb.Helper()
	sim, err := simulator.Get()
	if err != nil {
		tb.Fatalf("Simulator initialization failed: %v", err)
	}
	// Make sure that whatever happens, we close the simulator
	tb.Cleanup(func() {
		if !sim.IsClosed() {
			tb.Error("simulator was not properly closed")
			if err := sim.Close(); err != nil {
				tb.Errorf("when closing simulator: %v", err)
			}
		}
	})
	return sim
}

// WriteNVIndex defines idx as a platform index readable with owner authorization, the way
// a paravisor publishes its HCL report, and fills it with data.
func WriteNVIndex(tb testing.TB, rw io.ReadWriter, idx tpmutil.Handle, data []byte) {
	tb.Helper()
	if err := tpm2.NVDefineSpace(rw, tpm2.HandlePlatform, idx,
		"", "", nil,
		tpm2.AttrPPWrite|tpm2.AttrPPRead|tpm2.AttrOwnerRead|tpm2.AttrAuthRead|tpm2.AttrPlatformCreate|tpm2.AttrNoDA,
		uint16(len(data))); err != nil {
		tb.Fatalf("NVDefineSpace failed: %v", err)
	}
	for off := 0; off < len(data); off += nvChunkSize {
		end := min(off+nvChunkSize, len(data))
		if err := tpm2.NVWrite(rw, tpm2.HandlePlatform, idx, "", data[off:end], uint16(off)); err != nil {
			tb.Fatalf("failed to write NV index at offset %d: %v", off, err)
		}
	}
}
