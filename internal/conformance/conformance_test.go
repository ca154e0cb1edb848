//go:build conformance

// Package conformance cross-checks this module's wrappers against
// klauspost/compress/flate, the way the teacher's internal/flate/
// inflate_test.go cross-checks against archive/zip. Gated behind a build
// tag since klauspost/compress is a test-only dependency (go.mod's
// "test-only conformance oracle" comment) that production builds of this
// module never need to pull in.
package conformance

import (
	"bytes"
	"io"
	"math/rand/v2"
	"testing"

	kflate "github.com/klauspost/compress/flate"

	deflate "github.com/elliotnunn/deflate"
)

// TestDecompressKlauspostOutput feeds DEFLATE streams produced by
// klauspost/compress/flate into this module's decompressor, confirming
// bit-exact compatibility with an independent, widely-used encoder.
func TestDecompressKlauspostOutput(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	for _, n := range []int{0, 1, 17, 4096, 70000} {
		in := make([]byte, n)
		for i := range in {
			in[i] = byte(r.IntN(256))
		}
		for _, level := range []int{kflate.NoCompression, kflate.DefaultCompression, kflate.BestCompression} {
			var buf bytes.Buffer
			w, err := kflate.NewWriter(&buf, level)
			if err != nil {
				t.Fatalf("kflate.NewWriter: %v", err)
			}
			if _, err := w.Write(in); err != nil {
				t.Fatalf("kflate write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("kflate close: %v", err)
			}

			d := deflate.NewDecompressor()
			out := make([]byte, n)
			got, _, err := d.Decompress(out, buf.Bytes())
			if err != nil {
				t.Fatalf("n=%d level=%d: Decompress failed: %v", n, level, err)
			}
			if !bytes.Equal(out[:got], in) {
				t.Fatalf("n=%d level=%d: mismatch", n, level)
			}
		}
	}
}

// TestKlauspostDecompressesOurOutput feeds this module's compressed output
// into klauspost/compress/flate's reader, confirming the encoder side
// produces streams any conformant DEFLATE decoder accepts.
func TestKlauspostDecompressesOurOutput(t *testing.T) {
	r := rand.New(rand.NewPCG(99, 3))
	for _, n := range []int{0, 1, 100, 70000} {
		in := make([]byte, n)
		for i := range in {
			in[i] = byte(r.IntN(256))
		}
		for level := 0; level <= 12; level++ {
			compressed := deflate.NewCompressor(level).Compress(nil, in)
			rc := kflate.NewReader(bytes.NewReader(compressed))
			got, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("n=%d level=%d: klauspost decode failed: %v", n, level, err)
			}
			if !bytes.Equal(got, in) {
				t.Fatalf("n=%d level=%d: mismatch", n, level)
			}
		}
	}
}
