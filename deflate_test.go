package deflate

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

func roundTrip(t *testing.T, b []byte, level int) {
	t.Helper()
	c := NewCompressor(level)
	compressed := c.Compress(nil, b)

	out := make([]byte, len(b))
	d := NewDecompressor()
	n, _, err := d.Decompress(out, compressed)
	if err != nil {
		t.Fatalf("level %d: Decompress failed: %v", level, err)
	}
	if !bytes.Equal(out[:n], b) {
		t.Fatalf("level %d: round trip mismatch, got %d bytes want %d", level, n, len(b))
	}
}

func TestRoundTripAllLevels(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	inputs := [][]byte{
		nil,
		[]byte("hello, world!\n"),
		bytes.Repeat([]byte{0x41}, 1000),
		repeatedBytes256(1000),
		randomBytes(r, 70000),
		textLike(r, 50000),
	}
	for level := 0; level <= 12; level++ {
		for _, in := range inputs {
			roundTrip(t, in, level)
		}
	}
}

func repeatedBytes256(times int) []byte {
	out := make([]byte, 0, 256*times)
	var seq [256]byte
	for i := range seq {
		seq[i] = byte(i)
	}
	for i := 0; i < times; i++ {
		out = append(out, seq[:]...)
	}
	return out
}

func randomBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.IntN(256))
	}
	return b
}

// textLike produces compressible but non-trivial data: a small vocabulary
// of words repeated with random gaps, exercising both literals and matches
// across a range of offsets and lengths.
func textLike(r *rand.Rand, n int) []byte {
	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "deflate", "huffman"}
	var buf bytes.Buffer
	for buf.Len() < n {
		buf.WriteString(words[r.IntN(len(words))])
		buf.WriteByte(' ')
	}
	return buf.Bytes()[:n]
}

func TestSpecExampleGzipHello(t *testing.T) {
	in := []byte("hello, world!\n")
	if got := CRC32(0, in); got != 0xb631dfc0 {
		t.Fatalf("crc32(0, hello) = %#x, want 0xb631dfc0", got)
	}
	compressed := GzipCompress(6, nil, in)
	d := NewDecompressor()
	out := make([]byte, len(in))
	n, err := d.GzipDecompress(out, compressed)
	if err != nil {
		t.Fatalf("GzipDecompress failed: %v", err)
	}
	if !bytes.Equal(out[:n], in) {
		t.Fatalf("gzip round trip mismatch")
	}
}

func TestSpecExampleEmptyZlib(t *testing.T) {
	compressed := ZlibCompress(6, nil, nil)
	d := NewDecompressor()
	n, err := d.ZlibDecompress(nil, compressed)
	if err != nil {
		t.Fatalf("ZlibDecompress failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty output, got %d bytes", n)
	}
}

func TestSpecExample1000As(t *testing.T) {
	in := bytes.Repeat([]byte{0x41}, 1000)
	compressed := NewCompressor(12).Compress(nil, in)
	if len(compressed) >= 20 {
		t.Fatalf("compressed size %d, want < 20", len(compressed))
	}
	out := make([]byte, len(in))
	d := NewDecompressor()
	n, _, err := d.Decompress(out, compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(out[:n], in) {
		t.Fatalf("round trip mismatch")
	}
}

func TestSpecExampleNoStoredFallback(t *testing.T) {
	in := repeatedBytes256(1000)
	compressed := GzipCompress(9, nil, in)
	if len(compressed) >= len(in) {
		t.Fatalf("expected compression to beat stored fallback: got %d, input %d", len(compressed), len(in))
	}
	out := make([]byte, len(in))
	d := NewDecompressor()
	n, err := d.GzipDecompress(out, compressed)
	if err != nil {
		t.Fatalf("GzipDecompress failed: %v", err)
	}
	if !bytes.Equal(out[:n], in) {
		t.Fatalf("round trip mismatch")
	}
}

func TestMultiMemberGzip(t *testing.T) {
	a := GzipCompress(6, nil, []byte("A"))
	b := GzipCompress(6, nil, []byte("B"))
	concat := append(append([]byte{}, a...), b...)

	d := NewDecompressor()
	out := make([]byte, 2)
	n, err := d.GzipDecompress(out, concat)
	if err != nil {
		t.Fatalf("GzipDecompress failed: %v", err)
	}
	if string(out[:n]) != "AB" {
		t.Fatalf("got %q, want %q", out[:n], "AB")
	}
}

func TestCompressBoundNeverExceeded(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, n := range []int{0, 1, 100, 65535, 65536, 200000} {
		in := randomBytes(r, n)
		bound := CompressBound(n)
		compressed := NewCompressor(1).Compress(nil, in)
		if len(compressed) > bound {
			t.Fatalf("n=%d: compressed %d bytes exceeds bound %d", n, len(compressed), bound)
		}
	}
}
