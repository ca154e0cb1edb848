package deflate

import (
	"encoding/binary"
	"fmt"
)

// ZlibCompress wraps the raw DEFLATE encoding of src (at the given level,
// [0,12]) in an RFC 1950 zlib header and Adler-32 trailer.
func ZlibCompress(level int, dst, src []byte) []byte {
	cmf, flg := zlibHeader(level)
	dst = append(dst, cmf, flg)
	dst = NewCompressor(level).Compress(dst, src)
	sum := Adler32(1, src)
	return binary.BigEndian.AppendUint32(dst, sum)
}

// zlibHeader builds the CMF/FLG byte pair: CMF fixes CM=8 (DEFLATE) and a
// fixed CINFO of 7 (32 KiB window, the only window size this codec ever
// slides), FLG sets FDICT=0 and FLEVEL from the compression level, with
// FCHECK chosen so the big-endian (CMF,FLG) pair is a multiple of 31 (RFC
// 1950 section 2.2).
func zlibHeader(level int) (cmf, flg byte) {
	cmf = 0x78 // CINFO=7, CM=8
	var flevel byte
	switch {
	case level == 0:
		flevel = 0
	case level <= 5:
		flevel = 1
	case level <= 8:
		flevel = 2
	default:
		flevel = 3
	}
	flg = flevel << 6
	check := (uint16(cmf)<<8 | uint16(flg)) % 31
	if check != 0 {
		flg += byte(31 - check)
	}
	return cmf, flg
}

// ZlibDecompress parses an RFC 1950 zlib stream from src, decompresses its
// DEFLATE payload into out, and verifies the trailing Adler-32.
func (d *Decompressor) ZlibDecompress(out, src []byte) (n int, err error) {
	if len(src) < 2 {
		return 0, ErrBadData
	}
	cmf, flg := src[0], src[1]
	if cmf&0x0f != 8 {
		return 0, fmt.Errorf("%w: unsupported zlib compression method", ErrBadData)
	}
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return 0, fmt.Errorf("%w: zlib header check failed", ErrBadData)
	}
	if flg&0x20 != 0 {
		return 0, fmt.Errorf("%w: zlib preset dictionaries are not supported", ErrBadData)
	}
	body := src[2:]
	if len(body) < 4 {
		return 0, ErrBadData
	}
	payload := body[:len(body)-4]
	trailer := body[len(body)-4:]

	n, _, err = d.Decompress(out, payload)
	if err != nil {
		return n, err
	}
	want := binary.BigEndian.Uint32(trailer)
	if got := Adler32(1, out[:n]); got != want {
		return n, fmt.Errorf("%w: zlib Adler-32 mismatch", ErrBadData)
	}
	return n, nil
}
