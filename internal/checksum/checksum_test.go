package checksum

import (
	"bytes"
	"hash/adler32"
	"hash/crc32"
	"math/rand/v2"
	"testing"
)

func TestAdler32MatchesStdlib(t *testing.T) {
	sizes := []int{0, 1, 3, adlerChunk - 1, adlerChunk, adlerChunk + 1, 4 * adlerChunk, 4*adlerChunk + 777}
	for _, n := range sizes {
		data := randomBytes(n)
		want := adler32.Checksum(data)
		got := Adler32(1, data)
		if got != want {
			t.Errorf("Adler32(len=%d) = %#x, want %#x", n, got, want)
		}
	}
}

func TestAdler32Incremental(t *testing.T) {
	data := randomBytes(10000)
	whole := Adler32(1, data)
	mid := len(data) / 3
	split := Adler32(Adler32(1, data[:mid]), data[mid:])
	if split != whole {
		t.Errorf("incremental Adler32 = %#x, want %#x", split, whole)
	}
}

func TestCRC32MatchesStdlib(t *testing.T) {
	sizes := []int{0, 1, 7, 8, 9, 63, 64, 65, 10000}
	for _, n := range sizes {
		data := randomBytes(n)
		want := crc32.ChecksumIEEE(data)
		got := ^CRC32(^uint32(0), data)
		if got != want {
			t.Errorf("CRC32(len=%d) = %#x, want %#x", n, got, want)
		}
	}
}

func TestCRC32Incremental(t *testing.T) {
	data := randomBytes(5000)
	whole := CRC32(^uint32(0), data)
	mid := 17
	split := CRC32(CRC32(^uint32(0), data[:mid]), data[mid:])
	if split != whole {
		t.Errorf("incremental CRC32 = %#x, want %#x", split, whole)
	}
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	r := rand.New(rand.NewPCG(1, 2))
	for i := range b {
		b[i] = byte(r.IntN(256))
	}
	return bytes.Clone(b)
}
